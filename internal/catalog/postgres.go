package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/piwi3910/StoneQuote/internal/model"
)

// Postgres serves the catalog from the shop's PostgreSQL database.
type Postgres struct {
	db *sql.DB
}

var _ Catalog = (*Postgres)(nil)

// OpenPostgres connects through the pgx driver and checks the connection.
func OpenPostgres(ctx context.Context, url string) (*Postgres, error) {
	if url == "" {
		return nil, errors.New("database url not set")
	}
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return NewPostgres(db), nil
}

// NewPostgres wraps an open database handle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// Close closes the database connection.
func (p *Postgres) Close() error {
	return p.db.Close()
}

const searchProductsQuery = `
	SELECT id, code, name_persian, width_value, thickness_value, base_price,
	       COALESCE(length_value, 0), COALESCE(contract_type, '')
	FROM stone_products
	WHERE is_active = true
	  AND ($1 = '' OR code ILIKE '%' || $1 || '%' OR name_persian ILIKE '%' || $1 || '%')
	  AND ($2 = '' OR contract_type IS NULL OR contract_type = '' OR contract_type = $2)
	ORDER BY code ASC
	LIMIT 50
`

// SearchProducts searches active stones by code or name.
func (p *Postgres) SearchProducts(ctx context.Context, text, contractType string) ([]model.StoneProduct, error) {
	rows, err := p.db.QueryContext(ctx, searchProductsQuery, text, contractType)
	if err != nil {
		return nil, fmt.Errorf("failed to query stones: %w", err)
	}
	defer rows.Close()

	var out []model.StoneProduct
	for rows.Next() {
		var s model.StoneProduct
		if err := rows.Scan(&s.ID, &s.Code, &s.NamePersian, &s.WidthValue, &s.ThicknessValue, &s.BasePrice, &s.LengthValue, &s.ContractType); err != nil {
			return nil, fmt.Errorf("failed to scan stone: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stones: %w", err)
	}
	return out, nil
}

// CuttingTypePricePerMeter looks up a cutting rate by code.
func (p *Postgres) CuttingTypePricePerMeter(ctx context.Context, code string) (float64, bool, error) {
	var price sql.NullFloat64
	err := p.db.QueryRowContext(ctx,
		`SELECT price_per_meter FROM cutting_types WHERE UPPER(code) = UPPER($1) LIMIT 1`, code).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query cutting type %s: %w", code, err)
	}
	if !price.Valid {
		return 0, false, nil
	}
	return price.Float64, true, nil
}

// SearchTools searches sub-services by either name.
func (p *Postgres) SearchTools(ctx context.Context, text string) ([]model.SubService, error) {
	rows, err := p.db.QueryContext(ctx, `
		SELECT id, COALESCE(name_persian, ''), COALESCE(name, ''),
		       COALESCE(price_per_meter, 0), COALESCE(price, 0), COALESCE(cost_per_meter, 0)
		FROM sub_services
		WHERE $1 = '' OR name_persian ILIKE '%' || $1 || '%' OR name ILIKE '%' || $1 || '%'
		ORDER BY id ASC
		LIMIT 50
	`, text)
	if err != nil {
		return nil, fmt.Errorf("failed to query tools: %w", err)
	}
	defer rows.Close()

	var out []model.SubService
	for rows.Next() {
		var t model.SubService
		if err := rows.Scan(&t.ID, &t.NamePersian, &t.Name, &t.PricePerMeter, &t.Price, &t.CostPerMeter); err != nil {
			return nil, fmt.Errorf("failed to scan tool: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tools: %w", err)
	}
	return out, nil
}

// ListFinishings returns every finishing.
func (p *Postgres) ListFinishings(ctx context.Context) ([]model.StoneFinishing, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT id, name_persian, price_per_square_meter FROM stone_finishings ORDER BY name_persian ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query finishings: %w", err)
	}
	defer rows.Close()

	var out []model.StoneFinishing
	for rows.Next() {
		var f model.StoneFinishing
		if err := rows.Scan(&f.ID, &f.NamePersian, &f.PricePerSquareMeter); err != nil {
			return nil, fmt.Errorf("failed to scan finishing: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read finishings: %w", err)
	}
	return out, nil
}
