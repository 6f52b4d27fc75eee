package generator

import "github.com/toyz/propgen/internal/models"

// CodeGenerator turns one type descriptor into its generated fragment
type CodeGenerator interface {
	GenerateType(desc models.TypeDescriptor) (models.Fragment, error)
	Explain(desc models.TypeDescriptor) TypeReport
}
