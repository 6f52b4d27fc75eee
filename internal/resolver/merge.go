package resolver

// Merge combines member-level settings over type-level defaults. Scalar
// fields take the specific value when set and fall back to the default;
// accumulating fields concatenate defaults first and OR their flags.
func Merge(specific, defaults Settings) Settings {
	return Settings{
		Generate:             override(specific.Generate, defaults.Generate),
		NotifyChanged:        override(specific.NotifyChanged, defaults.NotifyChanged),
		NotifyChangedMethod:  override(specific.NotifyChangedMethod, defaults.NotifyChangedMethod),
		NotifyChanging:       override(specific.NotifyChanging, defaults.NotifyChanging),
		NotifyChangingMethod: override(specific.NotifyChangingMethod, defaults.NotifyChangingMethod),
		ValidationStrategy:   override(specific.ValidationStrategy, defaults.ValidationStrategy),
		PropertyName:         override(specific.PropertyName, defaults.PropertyName),
		Encapsulation:        override(specific.Encapsulation, defaults.Encapsulation),
		VirtualProperty:      override(specific.VirtualProperty, defaults.VirtualProperty),
		Range:                override(specific.Range, defaults.Range),
		MaxLength:            override(specific.MaxLength, defaults.MaxLength),
		EqualityCheck:        override(specific.EqualityCheck, defaults.EqualityCheck),
		Getter:               override(specific.Getter, defaults.Getter),
		Setter:               override(specific.Setter, defaults.Setter),
		DefaultValue:         override(specific.DefaultValue, defaults.DefaultValue),

		GuardMethods: accumulate(defaults.GuardMethods, specific.GuardMethods),
		Passthrough:  defaults.Passthrough.union(specific.Passthrough),
		Takeover:     defaults.Takeover.union(specific.Takeover),
	}
}

func override[T any](specific, defaults *T) *T {
	if specific != nil {
		return specific
	}
	return defaults
}

func accumulate[T any](first, second []T) []T {
	if len(first)+len(second) == 0 {
		return nil
	}
	out := make([]T, 0, len(first)+len(second))
	out = append(out, first...)
	return append(out, second...)
}

func (a AttributeList) union(b AttributeList) AttributeList {
	return AttributeList{
		Items: accumulate(a.Items, b.Items),
		Flag:  a.Flag || b.Flag,
	}
}
