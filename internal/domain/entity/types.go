package entity

import (
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/audit"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/contract"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/finding"
	"github.com/anshuman444/hacknovation2.0/internal/domain/entity/owner"
)

type (
	Audit            = audit.Audit
	Finding          = finding.Finding
	OptimizationNote = finding.OptimizationNote
	Owner            = owner.Owner
	VerifiedContract = contract.VerifiedContract
)
