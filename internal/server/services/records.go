package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/gpatracker/internal/common"
	"github.com/dmitrijs2005/gpatracker/internal/logging"
	"github.com/dmitrijs2005/gpatracker/internal/server/models"
	"github.com/dmitrijs2005/gpatracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gpatracker/internal/server/tenancy"
)

// RecordService serves the class records of one tenant at a time. The tenant
// always comes from validated session claims.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validator.Validate
	logger      logging.Logger
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *RecordService {
	v := validator.New()
	// same tags gin checks at the boundary
	v.SetTagName("binding")
	v.RegisterTagNameFunc(common.JSONTagName)

	return &RecordService{
		db:          db,
		repomanager: m,
		validate:    v,
		logger:      logger.With("component", "records"),
	}
}

func (s *RecordService) List(ctx context.Context, tenant string) ([]*models.ClassRecord, error) {
	if err := tenancy.Validate(tenant); err != nil {
		return nil, err
	}

	items, err := s.repomanager.ClassRecords(s.db).List(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return items, nil
}

func (s *RecordService) Create(ctx context.Context, tenant string, in models.RecordInput) (*models.ClassRecord, error) {
	if err := s.check(tenant, in); err != nil {
		return nil, err
	}

	rec, err := s.repomanager.ClassRecords(s.db).Create(ctx, tenant, in.Record(0))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	s.logger.Debug(ctx, "Record created", "tenant", tenant, "id", rec.ID)
	return rec, nil
}

// Update replaces the mutable fields of record id. A record the tenant does
// not own is reported as common.ErrorNotFound.
func (s *RecordService) Update(ctx context.Context, tenant string, id int64, in models.RecordInput) (*models.ClassRecord, error) {
	if err := s.check(tenant, in); err != nil {
		return nil, err
	}

	rec, err := s.repomanager.ClassRecords(s.db).Update(ctx, tenant, in.Record(id))
	if err != nil {
		return nil, wrapRepoErr(err)
	}
	return rec, nil
}

func (s *RecordService) Delete(ctx context.Context, tenant string, id int64) error {
	if err := tenancy.Validate(tenant); err != nil {
		return err
	}

	if err := s.repomanager.ClassRecords(s.db).Delete(ctx, tenant, id); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return nil
}

// Aggregate returns the credit-weighted grade average rounded to two
// decimals. A tenant without credits gets {0, 0}.
func (s *RecordService) Aggregate(ctx context.Context, tenant string) (models.Aggregate, error) {
	if err := tenancy.Validate(tenant); err != nil {
		return models.Aggregate{}, err
	}

	points, credits, err := s.repomanager.ClassRecords(s.db).Totals(ctx, tenant)
	if err != nil {
		return models.Aggregate{}, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	if credits == 0 {
		return models.Aggregate{}, nil
	}

	return models.Aggregate{
		GPA:          math.Round(points/float64(credits)*100) / 100,
		TotalCredits: credits,
	}, nil
}

func (s *RecordService) check(tenant string, in models.RecordInput) error {
	if err := tenancy.Validate(tenant); err != nil {
		return err
	}
	if err := s.validate.Struct(in); err != nil {
		return common.NewInputError(common.DescribeInvalid(err), err)
	}
	return nil
}

func wrapRepoErr(err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", common.ErrorInternal, err)
}
