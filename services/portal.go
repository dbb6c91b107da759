package services

import (
	"SafeEduBackend/logger"
)

// Options carries the component settings taken from configuration.
type Options struct {
	PassThreshold      float64
	CertificateBaseURL string
	Progress           ProgressPolicy
	BcryptCost         int
}

// Portal wires every component against one store.
type Portal struct {
	Identity      *IdentityService
	Catalog       *CatalogService
	Progress      *ProgressService
	Assessments   *AssessmentService
	Certification *CertificationService
	Notices       *NoticeService
}

func NewPortal(store Store, opts Options, log *logger.Logger) (*Portal, error) {
	if opts.PassThreshold == 0 {
		opts.PassThreshold = DefaultPassThreshold
	}

	catalog := NewCatalogService(store, log)
	issuer := NewCertificationService(store, store, opts.CertificateBaseURL, log)
	assessments, err := NewAssessmentService(store, store, catalog, issuer, opts.PassThreshold, log)
	if err != nil {
		return nil, err
	}

	return &Portal{
		Identity:      NewIdentityService(store, opts.BcryptCost, log),
		Catalog:       catalog,
		Progress:      NewProgressService(store, catalog, opts.Progress, log),
		Assessments:   assessments,
		Certification: issuer,
		Notices:       NewNoticeService(store, log),
	}, nil
}
