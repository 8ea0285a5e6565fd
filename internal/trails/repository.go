package trails

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/hub/internal/materials"
	"github.com/JaimeStill/hub/internal/roles"
	"github.com/JaimeStill/hub/pkg/pagination"
	"github.com/JaimeStill/hub/pkg/query"
	"github.com/JaimeStill/hub/pkg/repository"
)

const trailColumns = "id, title, description, roles, status, created_at, updated_at"

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a trail repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "trails"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Trail], error) {
	page.Normalize(r.pagination)
	role := roles.FromContext(ctx)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)
	applyVisibility(qb, role)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count trails: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	trails, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanTrail)
	if err != nil {
		return nil, fmt.Errorf("query trails: %w", err)
	}

	if err := attachItems(ctx, r.db, trails, role); err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(trails, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Trail, error) {
	return r.find(ctx, id, roles.FromContext(ctx))
}

func (r *repo) Create(ctx context.Context, cmd Command) (*Trail, error) {
	if err := cmd.Normalize(); err != nil {
		return nil, err
	}

	q := `
		INSERT INTO trails(id, title, description, roles, status)
		VALUES ($1, $2, $3, $4::jsonb, $5)
		RETURNING ` + trailColumns

	args := []any{uuid.New(), cmd.Title, cmd.Description, roles.List(cmd.Roles), string(cmd.Status)}

	t, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Trail, error) {
		return repository.QueryOne(ctx, tx, q, args, scanTrail)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("trail created", "id", t.ID, "title", t.Title)
	return &t, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd Command) (*Trail, error) {
	if err := cmd.Normalize(); err != nil {
		return nil, err
	}

	q := `
		UPDATE trails
		SET title = $2, description = $3, roles = $4::jsonb, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + trailColumns

	args := []any{id, cmd.Title, cmd.Description, roles.List(cmd.Roles), string(cmd.Status)}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Trail, error) {
		return repository.QueryOne(ctx, tx, q, args, scanTrail)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("trail updated", "id", id)
	return r.find(ctx, id, roles.SuperAdmin)
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, "DELETE FROM trails WHERE id = $1", id)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("trail deleted", "id", id)
	return nil
}

// SetMaterials replaces the membership and order of a trail in one
// transaction. Positions follow the order of materialIDs.
func (r *repo) SetMaterials(ctx context.Context, id uuid.UUID, materialIDs []uuid.UUID) (*Trail, error) {
	if err := (MaterialsCommand{MaterialIDs: materialIDs}).Validate(); err != nil {
		return nil, err
	}

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"UPDATE trails SET updated_at = NOW() WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM trail_materials WHERE trail_id = $1", id); err != nil {
			return struct{}{}, err
		}

		for i, mid := range materialIDs {
			if _, err := tx.ExecContext(
				ctx,
				"INSERT INTO trail_materials(trail_id, material_id, position) VALUES ($1, $2, $3)",
				id, mid, i+1,
			); err != nil {
				return struct{}{}, err
			}
		}
		return struct{}{}, nil
	})

	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return nil, ErrInvalidMaterial
		}
		return nil, repository.MapError(err, ErrNotFound, ErrInvalidMaterial)
	}

	r.logger.Info("trail materials set", "id", id, "count", len(materialIDs))
	return r.find(ctx, id, roles.SuperAdmin)
}

func (r *repo) find(ctx context.Context, id uuid.UUID, role roles.Role) (*Trail, error) {
	qb := query.NewBuilder(projection).WhereEquals("ID", id)
	applyVisibility(qb, role)
	q, args := qb.BuildSingleOrNull()

	t, err := repository.QueryOne(ctx, r.db, q, args, scanTrail)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	trails := []Trail{t}
	if err := attachItems(ctx, r.db, trails, role); err != nil {
		return nil, err
	}
	return &trails[0], nil
}

// applyVisibility limits callers other than super_admin to published
// trails their role may see.
func applyVisibility(qb *query.Builder, role roles.Role) {
	roles.ApplyVisibility(qb, "Roles", role)
	if role != roles.SuperAdmin {
		qb.WhereEquals("Status", string(materials.StatusPublished))
	}
}

// attachItems loads trail members in position order. Members the caller
// may not see are left out.
func attachItems(ctx context.Context, q repository.Querier, trails []Trail, role roles.Role) error {
	if len(trails) == 0 {
		return nil
	}

	ids := make([]string, len(trails))
	index := make(map[uuid.UUID]int, len(trails))
	for i, t := range trails {
		ids[i] = t.ID.String()
		index[t.ID] = i
	}

	qb := query.
		NewBuilder(itemProjection, query.SortField{Field: "Position"}).
		WhereRaw(itemProjection.Column("TrailID")+" = ANY($%d::uuid[])", ids)
	roles.ApplyVisibility(qb, "m.roles", role)

	stmt, args := qb.Build()
	items, err := repository.QueryMany(ctx, q, stmt, args, scanItem)
	if err != nil {
		return fmt.Errorf("query trail materials: %w", err)
	}

	for _, ti := range items {
		if i, ok := index[ti.trailID]; ok {
			trails[i].Materials = append(trails[i].Materials, ti.item)
		}
	}
	return nil
}
