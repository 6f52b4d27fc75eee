package errors

import "fmt"

// Common error wrapping patterns used throughout the codebase

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to parse %s", item)
	return Wrap(SyntaxErrorCode, message, cause)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	message := fmt.Sprintf("failed to generate %s", item)
	return Wrap(GenerationErrorCode, message, cause).
		WithContext("target", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapDescriptorError wraps errors raised while loading type descriptors
func WrapDescriptorError(path string, cause error) *BaseError {
	message := fmt.Sprintf("invalid descriptor file '%s'", path)
	return Wrap(DescriptorErrorCode, message, cause).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(configType, operation string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s configuration '%s'", operation, configType)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("config_type", configType).
		WithContext("operation", operation)
}
