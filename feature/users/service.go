package users

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Field is a queryable users column.
type Field string

const (
	FieldPhone Field = "phone"
	FieldQQ    Field = "qq"
	FieldEmail Field = "email"
)

// lookupOrder is the priority in which request criteria are considered when
// more than one is present.
var lookupOrder = []Field{FieldPhone, FieldQQ, FieldEmail}

// Service executes user lookups against the server's database handle.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new users service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Lookup returns the users whose field matches value exactly.
func (s *Service) Lookup(ctx context.Context, field Field, value string) ([]UserInfo, error) {
	switch field {
	case FieldPhone, FieldQQ, FieldEmail:
	default:
		return nil, fmt.Errorf("unknown lookup field %q", field)
	}

	var results []UserInfo
	err := s.db.WithContext(ctx).
		Select("email", "phone", "qq").
		Where(map[string]any{string(field): value}).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("user lookup by %s failed: %w", field, err)
	}

	s.logger.Debug("User lookup",
		zap.String("field", string(field)),
		zap.Int("matches", len(results)),
	)
	return results, nil
}

// Stats returns the total record count and the distinct counts per column.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	db := s.db.WithContext(ctx)

	var st Stats
	queries := []struct {
		sql  string
		dest *int64
	}{
		{"SELECT COUNT(*) FROM users", &st.TotalRecords},
		{"SELECT COUNT(DISTINCT phone) FROM users WHERE phone IS NOT NULL", &st.UniquePhones},
		{"SELECT COUNT(DISTINCT qq) FROM users WHERE qq IS NOT NULL", &st.UniqueQQs},
		{"SELECT COUNT(DISTINCT email) FROM users WHERE email IS NOT NULL", &st.UniqueEmails},
	}
	for _, q := range queries {
		if err := db.Raw(q.sql).Scan(q.dest).Error; err != nil {
			return Stats{}, fmt.Errorf("stats query failed: %w", err)
		}
	}
	return st, nil
}
