//go:generate mockgen -source=$GOFILE -package=$GOPACKAGE -destination=./mock/$GOFILE

package ftpworker

import (
	"context"
)

// Repository provides ftp worker related operations.
type Repository interface {
	Run(ctx context.Context) error
}

// Service provides ftp worker related operations.
type Service struct {
	repo Repository
}

// New creates a new ftp worker service.
func New(repo Repository) *Service {
	return &Service{
		repo: repo,
	}
}

// Run consumes and processes transfer jobs until the context is canceled.
func (s *Service) Run(ctx context.Context) (err error) {
	err = s.repo.Run(ctx)
	if err != nil {
		return err
	}

	return nil
}
