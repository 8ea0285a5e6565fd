package materials

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/hub/internal/roles"
	"github.com/JaimeStill/hub/pkg/media"
	"github.com/JaimeStill/hub/pkg/metrics"
	"github.com/JaimeStill/hub/pkg/pagination"
	"github.com/JaimeStill/hub/pkg/query"
	"github.com/JaimeStill/hub/pkg/repository"
	"github.com/JaimeStill/hub/pkg/storage"
)

const blobCleanupLimit = 4

type repo struct {
	db         *sql.DB
	storage    storage.System
	metrics    *metrics.Metrics
	logger     *slog.Logger
	pagination pagination.Config
	assetBase  string
}

// New creates a material repository implementing the System interface.
// assetBase is the public path uploaded blobs are served from; asset URLs
// for uploads are assetBase joined with the blob key.
func New(
	db *sql.DB,
	store storage.System,
	m *metrics.Metrics,
	logger *slog.Logger,
	pagination pagination.Config,
	assetBase string,
) System {
	return &repo{
		db:         db,
		storage:    store,
		metrics:    m,
		logger:     logger.With("system", "materials"),
		pagination: pagination,
		assetBase:  strings.TrimSuffix(assetBase, "/"),
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Material], error) {
	page.Normalize(r.pagination)
	role := roles.FromContext(ctx)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Description")

	filters.Apply(qb)
	roles.ApplyVisibility(qb, "Roles", role)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count materials: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	mats, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanMaterial)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}

	if err := r.attachAssets(ctx, r.db, mats, role); err != nil {
		return nil, err
	}

	result := pagination.NewPageResult(mats, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Material, error) {
	role := roles.FromContext(ctx)

	qb := query.NewBuilder(projection).WhereEquals("ID", id)
	roles.ApplyVisibility(qb, "Roles", role)
	q, args := qb.BuildSingleOrNull()

	m, err := repository.QueryOne(ctx, r.db, q, args, scanMaterial)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	mats := []Material{m}
	if err := r.attachAssets(ctx, r.db, mats, role); err != nil {
		return nil, err
	}
	return &mats[0], nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Material, error) {
	if err := cmd.Normalize(); err != nil {
		return nil, err
	}

	id := uuid.New()

	q := `
		INSERT INTO materials(id, title, description, type, roles)
		VALUES ($1, $2, $3, $4, $5::jsonb)
		RETURNING id, title, description, type, roles, created_at, updated_at`

	m, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Material, error) {
		m, err := repository.QueryOne(
			ctx, tx, q,
			[]any{id, cmd.Title, cmd.Description, string(cmd.Type), roles.List(cmd.Roles)},
			scanMaterial,
		)
		if err != nil {
			return m, err
		}

		for _, ac := range cmd.Assets {
			a, _, err := upsertAsset(ctx, tx, id, assetRow{
				language:    ac.Language,
				url:         ac.URL,
				subtitleURL: ac.SubtitleURL,
				status:      ac.Status,
			})
			if err != nil {
				return m, err
			}
			m.Assets = append(m.Assets, a)
		}
		return m, nil
	})

	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("material created", "id", m.ID, "title", m.Title, "type", m.Type)
	return &m, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Material, error) {
	if err := cmd.Normalize(); err != nil {
		return nil, err
	}

	q := `
		UPDATE materials
		SET title = $2, description = $3, type = $4, roles = $5::jsonb, updated_at = NOW()
		WHERE id = $1
		RETURNING id, title, description, type, roles, created_at, updated_at`

	m, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Material, error) {
		return repository.QueryOne(
			ctx, tx, q,
			[]any{id, cmd.Title, cmd.Description, string(cmd.Type), roles.List(cmd.Roles)},
			scanMaterial,
		)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	mats := []Material{m}
	if err := r.attachAssets(ctx, r.db, mats, roles.SuperAdmin); err != nil {
		return nil, err
	}

	r.logger.Info("material updated", "id", id)
	return &mats[0], nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	keys, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) ([]string, error) {
		keys, err := repository.QueryMany(
			ctx, tx,
			"SELECT storage_key FROM material_assets WHERE material_id = $1 AND storage_key <> ''",
			[]any{id},
			scanString,
		)
		if err != nil {
			return nil, err
		}

		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM materials WHERE id = $1",
			id,
		); err != nil {
			return nil, err
		}
		return keys, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.deleteBlobs(ctx, keys)

	r.logger.Info("material deleted", "id", id, "blobs", len(keys))
	return nil
}

func (r *repo) PutAsset(ctx context.Context, id uuid.UUID, lang string, cmd AssetCommand) (*Asset, error) {
	cmd.Language = lang
	if err := cmd.Normalize(); err != nil {
		return nil, err
	}

	row := assetRow{
		language:    cmd.Language,
		url:         cmd.URL,
		subtitleURL: cmd.SubtitleURL,
		status:      cmd.Status,
	}

	a, previous, err := r.saveAsset(ctx, id, row)
	if err != nil {
		return nil, err
	}

	if previous != "" {
		r.deleteBlobs(ctx, []string{previous})
	}

	r.logger.Info("asset saved", "material_id", id, "language", a.Language)
	return &a, nil
}

func (r *repo) DeleteAsset(ctx context.Context, id uuid.UUID, lang string) error {
	lang, err := ParseLanguage(lang)
	if err != nil {
		return err
	}

	key, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (string, error) {
		return repository.QueryOne(
			ctx, tx,
			"DELETE FROM material_assets WHERE material_id = $1 AND language = $2 RETURNING storage_key",
			[]any{id, lang},
			scanString,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrAssetNotFound, ErrDuplicate)
	}

	if key != "" {
		r.deleteBlobs(ctx, []string{key})
	}

	r.logger.Info("asset deleted", "material_id", id, "language", lang)
	return nil
}

func (r *repo) Upload(ctx context.Context, id uuid.UUID, lang string, cmd UploadCommand) (*Asset, error) {
	lang, err := ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	if len(cmd.Data) == 0 {
		return nil, ErrInvalidFile
	}

	status := cmd.Status
	if status == "" {
		status = StatusDraft
	}

	key := buildStorageKey(id, lang, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload asset blob: %w", err)
	}

	row := assetRow{
		language:    lang,
		url:         r.assetBase + "/" + key,
		subtitleURL: strings.TrimSpace(cmd.SubtitleURL),
		status:      status,
		storageKey:  key,
		contentType: cmd.ContentType,
		sizeBytes:   int64(len(cmd.Data)),
		pageCount:   cmd.PageCount,
	}

	a, previous, err := r.saveAsset(ctx, id, row)
	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, err
	}

	if previous != "" && previous != key {
		r.deleteBlobs(ctx, []string{previous})
	}

	r.logger.Info(
		"asset uploaded",
		"material_id", id,
		"language", lang,
		"key", key,
		"size", a.SizeBytes,
	)
	return &a, nil
}

func (r *repo) View(ctx context.Context, id uuid.UUID, lang string, mode media.Mode) (*View, error) {
	m, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if lang == "" {
		if langs := m.Languages(); len(langs) > 0 {
			lang = langs[0]
		}
	} else if lang, err = ParseLanguage(lang); err != nil {
		return nil, err
	}

	var asset *media.Asset
	if a := m.Asset(lang); a != nil {
		asset = &media.Asset{URL: a.URL, SubtitleURL: a.SubtitleURL}
	}

	state := media.NewViewState(m.Type, asset)
	state.SetMode(mode)
	plan := state.Plan()

	if plan.Strategy != media.StrategyUnavailable {
		r.metrics.RecordDetection(string(plan.Provider), metrics.CallView)
	}

	return &View{
		MaterialID: m.ID,
		Title:      m.Title,
		Type:       m.Type,
		Language:   lang,
		Languages:  m.Languages(),
		Plan:       plan,
	}, nil
}

type assetRow struct {
	language    string
	url         string
	subtitleURL string
	status      Status
	storageKey  string
	contentType string
	sizeBytes   int64
	pageCount   *int
}

// saveAsset upserts an asset and returns the storage key it replaced,
// if that key is no longer referenced.
func (r *repo) saveAsset(ctx context.Context, id uuid.UUID, row assetRow) (Asset, string, error) {
	type saved struct {
		asset    Asset
		previous string
	}

	s, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (saved, error) {
		a, previous, err := upsertAsset(ctx, tx, id, row)
		return saved{a, previous}, err
	})

	if err != nil {
		if repository.IsForeignKeyViolation(err) {
			return Asset{}, "", ErrNotFound
		}
		return Asset{}, "", repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if s.previous == s.asset.StorageKey {
		s.previous = ""
	}
	return s.asset, s.previous, nil
}

func upsertAsset(ctx context.Context, tx *sql.Tx, id uuid.UUID, row assetRow) (Asset, string, error) {
	previous, err := repository.QueryOne(
		ctx, tx,
		"SELECT storage_key FROM material_assets WHERE material_id = $1 AND language = $2 FOR UPDATE",
		[]any{id, row.language},
		scanString,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Asset{}, "", err
	}

	q := `
		INSERT INTO material_assets(id, material_id, language, url, subtitle_url, status, storage_key, content_type, size_bytes, page_count)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (material_id, language) DO UPDATE SET
			url = EXCLUDED.url,
			subtitle_url = EXCLUDED.subtitle_url,
			status = EXCLUDED.status,
			storage_key = EXCLUDED.storage_key,
			content_type = EXCLUDED.content_type,
			size_bytes = EXCLUDED.size_bytes,
			page_count = EXCLUDED.page_count,
			updated_at = NOW()
		RETURNING ` + assetColumns

	args := []any{
		uuid.New(),
		id,
		row.language,
		row.url,
		row.subtitleURL,
		string(row.status),
		row.storageKey,
		row.contentType,
		row.sizeBytes,
		row.pageCount,
	}

	a, err := repository.QueryOne(ctx, tx, q, args, scanAsset)
	return a, previous, err
}

// attachAssets loads the assets of mats in one query. Callers other than
// super_admin only see published assets.
func (r *repo) attachAssets(ctx context.Context, q repository.Querier, mats []Material, role roles.Role) error {
	if len(mats) == 0 {
		return nil
	}

	ids := make([]string, len(mats))
	index := make(map[uuid.UUID]int, len(mats))
	for i, m := range mats {
		ids[i] = m.ID.String()
		index[m.ID] = i
	}

	qb := query.
		NewBuilder(assetProjection, query.SortField{Field: "Language"}).
		WhereRaw(assetProjection.Column("MaterialID")+" = ANY($%d::uuid[])", ids)

	if role != roles.SuperAdmin {
		qb.WhereEquals("Status", string(StatusPublished))
	}

	stmt, args := qb.Build()
	assets, err := repository.QueryMany(ctx, q, stmt, args, scanAsset)
	if err != nil {
		return fmt.Errorf("query assets: %w", err)
	}

	for _, a := range assets {
		if i, ok := index[a.MaterialID]; ok {
			mats[i].Assets = append(mats[i].Assets, a)
		}
	}
	return nil
}

// deleteBlobs removes blobs concurrently. Failures are logged and do not
// fail the calling operation, which has already committed.
func (r *repo) deleteBlobs(ctx context.Context, keys []string) {
	if len(keys) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(context.WithoutCancel(ctx))
	g.SetLimit(blobCleanupLimit)

	for _, key := range keys {
		g.Go(func() error {
			if err := r.storage.Delete(gctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
				r.logger.Warn("blob delete failed", "key", key, "error", err)
			}
			return nil
		})
	}

	g.Wait()
}

func scanString(s repository.Scanner) (string, error) {
	var v string
	err := s.Scan(&v)
	return v, err
}

func buildStorageKey(id uuid.UUID, lang, filename string) string {
	return fmt.Sprintf("materials/%s/%s/%s", id, lang, filename)
}

// sanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] so keys are safe to place in a URL path.
func sanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		}
		return '-'
	}, name)

	name = strings.Trim(name, ".-")
	if name == "" {
		name = "asset"
	}
	return name
}
