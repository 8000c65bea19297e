package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/klauspost/compress/zstd"

	"optiretail/internal/domain/audit"
)

// CompressionAlgo specifies the compression applied to stored changes.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// DefaultCompressThreshold is the changes payload size above which it is zstd-compressed.
// A deposit confirmation with before and after snapshots is above it.
const DefaultCompressThreshold = 512

// AuditRecord is one stored sys_audit row.
type AuditRecord struct {
	ID                int64           `db:"id"`
	EntityType        string          `db:"entity_type"`
	EntityID          string          `db:"entity_id"`
	Action            string          `db:"action"`
	UserID            *string         `db:"user_id"`
	UserName          *string         `db:"user_name"`
	Changes           json.RawMessage `db:"changes"`
	ChangesCompressed []byte          `db:"changes_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService writes and reads the sys_audit trail.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

var (
	_ audit.Recorder = (*AuditService)(nil)
	_ audit.Reader   = (*AuditService)(nil)
)

// AuditOption configures an AuditService.
type AuditOption func(*AuditService)

// WithCompressThreshold sets the payload size above which changes are compressed.
// Zero compresses every payload.
func WithCompressThreshold(n int) AuditOption {
	return func(s *AuditService) {
		if n >= 0 {
			s.compressThreshold = n
		}
	}
}

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager, opts ...AuditOption) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	s := &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: DefaultCompressThreshold,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// encodeChanges marshals changes and compresses them when they exceed the threshold.
func (s *AuditService) encodeChanges(changes map[string]any) (json.RawMessage, []byte, CompressionAlgo, error) {
	raw, err := json.Marshal(changes)
	if err != nil {
		return nil, nil, CompressionNone, fmt.Errorf("marshal changes: %w", err)
	}
	if len(raw) <= s.compressThreshold {
		return raw, nil, CompressionNone, nil
	}
	return nil, s.encoder.EncodeAll(raw, nil), CompressionZstd, nil
}

// decodeChanges restores the JSON payload of a stored record.
func (s *AuditService) decodeChanges(r *AuditRecord) error {
	if r.CompressionAlgo != CompressionZstd || len(r.ChangesCompressed) == 0 {
		return nil
	}
	raw, err := s.decoder.DecodeAll(r.ChangesCompressed, nil)
	if err != nil {
		return fmt.Errorf("decompress changes: %w", err)
	}
	r.Changes = raw
	r.ChangesCompressed = nil
	return nil
}

// Record inserts an audit entry, inside the transaction of ctx when there is one.
func (s *AuditService) Record(ctx context.Context, entry audit.Entry) error {
	audit.EnrichUser(ctx, &entry)

	changes, compressed, algo, err := s.encodeChanges(entry.Changes)
	if err != nil {
		return err
	}

	const sql = `
		INSERT INTO sys_audit (
			entity_type, entity_id, action, user_id, user_name,
			changes, changes_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, $8, $9)
	`

	_, err = s.txManager.GetQuerier(ctx).Exec(ctx, sql,
		entry.EntityType, entry.EntityID, string(entry.Action),
		entry.UserID, entry.UserName,
		changes, compressed, algo, time.Now().UTC(),
	)
	if err != nil {
		return QueryError("insert audit entry", err)
	}
	return nil
}

// History returns the newest audit records of one entity with their changes decoded.
func (s *AuditService) History(ctx context.Context, entityType, entityID string, limit int) ([]audit.HistoryEntry, error) {
	const sql = `
		SELECT id, entity_type, entity_id, action, user_id, user_name,
		       changes, changes_compressed, compression_algo, created_at
		FROM sys_audit
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	var records []AuditRecord
	if err := pgxscan.Select(ctx, s.txManager.GetQuerier(ctx), &records, sql, entityType, entityID, limit); err != nil {
		return nil, QueryError("query audit history", err)
	}

	entries := make([]audit.HistoryEntry, 0, len(records))
	for i := range records {
		e, err := s.toHistoryEntry(&records[i])
		if err != nil {
			return nil, fmt.Errorf("audit record %d: %w", records[i].ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func (s *AuditService) toHistoryEntry(r *AuditRecord) (audit.HistoryEntry, error) {
	if err := s.decodeChanges(r); err != nil {
		return audit.HistoryEntry{}, err
	}

	var changes map[string]any
	if len(r.Changes) > 0 {
		if err := json.Unmarshal(r.Changes, &changes); err != nil {
			return audit.HistoryEntry{}, fmt.Errorf("unmarshal changes: %w", err)
		}
	}

	return audit.HistoryEntry{
		ID:         r.ID,
		EntityType: r.EntityType,
		EntityID:   r.EntityID,
		Action:     audit.Action(r.Action),
		UserID:     r.UserID,
		UserName:   r.UserName,
		Changes:    changes,
		CreatedAt:  r.CreatedAt,
	}, nil
}
