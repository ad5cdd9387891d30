package queries

import (
	"database/sql"
	"time"

	"atelier/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Read models are scanned from raw SQL rows; these helpers turn nullable
// columns into the kernel types used by the responses.

func idFrom(id uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func optionalID(id uuid.NullUUID) (kernel.Option[kernel.UUID], error) {
	if !id.Valid {
		return kernel.None[kernel.UUID](), nil
	}
	parsed, err := idFrom(id.UUID)
	if err != nil {
		return kernel.None[kernel.UUID](), err
	}
	return kernel.Some(parsed), nil
}

func optionalDecimal(d decimal.NullDecimal) kernel.Option[decimal.Decimal] {
	if !d.Valid {
		return kernel.None[decimal.Decimal]()
	}
	return kernel.Some(d.Decimal)
}

func optionalTime(t sql.NullTime) kernel.Option[time.Time] {
	if !t.Valid {
		return kernel.None[time.Time]()
	}
	return kernel.Some(t.Time.UTC())
}

func optionalString(s sql.NullString) kernel.Option[string] {
	if !s.Valid {
		return kernel.None[string]()
	}
	return kernel.Some(s.String)
}
