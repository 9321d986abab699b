package store

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

var consultationColumns = []string{
	"id", "sequence", "timestamp", "consultation_id", "requester", "status",
	"major_code", "major_name", "final_cf", "supported", "error_message", "narrative", "payload",
}

// consultationRepo implements ConsultationRepo.
type consultationRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *consultationRepo) Append(ctx context.Context, data ConsultationEventData) (int, error) {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}

	payload, err := msgpack.Marshal(&data.Audit)
	if err != nil {
		return 0, fmt.Errorf("encode audit payload: %w", err)
	}

	var majorCode, finalCF any
	if data.MajorCode != nil {
		majorCode = *data.MajorCode
	}
	if data.FinalCF != nil {
		finalCF = *data.FinalCF
	}

	query, args := sqlite.Insert(ConsultationEventsTable.Name).
		Columns(consultationColumns[1:]...).
		Values(
			seqNum, time.Now().UTC(), data.ConsultationID, data.Requester, data.Status,
			majorCode, data.MajorName, finalCF, data.Supported, data.ErrorMessage, data.Narrative, payload,
		).
		Query()

	id, err := insert(ctx, r.drv, query, args)
	if err != nil {
		return 0, fmt.Errorf("save consultation event: %w", err)
	}
	return id, nil
}

func (r *consultationRepo) Query(ctx context.Context, requester string, opts QueryOpts) ([]ConsultationRecord, error) {
	sel := sqlite.Select(consultationColumns...).
		From(sqlite.Table(ConsultationEventsTable.Name)).
		OrderBy(entsql.Desc("sequence"))

	if requester != "" {
		sel = sel.Where(entsql.EQ("requester", requester))
	}
	applyQueryOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query consultation events: %w", err)
	}
	defer rows.Close()

	var records []ConsultationRecord
	for rows.Next() {
		rec, err := scanConsultation(&rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate consultation events: %w", err)
	}
	return records, nil
}

func (r *consultationRepo) Get(ctx context.Context, id int) (*ConsultationRecord, error) {
	query, args := sqlite.Select(consultationColumns...).
		From(sqlite.Table(ConsultationEventsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("get consultation event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanConsultation(&rows)
}

func scanConsultation(rows *entsql.Rows) (*ConsultationRecord, error) {
	var (
		rec       ConsultationRecord
		majorCode stdsql.NullInt64
		finalCF   stdsql.NullFloat64
		payload   []byte
	)
	err := rows.Scan(
		&rec.ID, &rec.Sequence, &rec.Timestamp, &rec.ConsultationID, &rec.Requester, &rec.Status,
		&majorCode, &rec.MajorName, &finalCF, &rec.Supported, &rec.ErrorMessage, &rec.Narrative, &payload,
	)
	if err != nil {
		return nil, fmt.Errorf("scan consultation event: %w", err)
	}

	if majorCode.Valid {
		code, err := safecast.Conv[int](majorCode.Int64)
		if err != nil {
			return nil, fmt.Errorf("major code: %w", err)
		}
		rec.MajorCode = &code
	}
	if finalCF.Valid {
		cf := finalCF.Float64
		rec.FinalCF = &cf
	}
	if len(payload) > 0 {
		if err := msgpack.Unmarshal(payload, &rec.Audit); err != nil {
			return nil, fmt.Errorf("decode audit payload: %w", err)
		}
	}
	return &rec, nil
}

// applyQueryOpts adds the sequence, time, and limit filters in opts to sel.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
