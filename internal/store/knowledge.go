package store

import (
	"context"
	stdsql "database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"fortio.org/safecast"
	"github.com/abhisek/jurusan/internal/inference"
)

// sqlite builds SQLite-dialect statements.
var sqlite = entsql.Dialect(dialect.SQLite)

// knowledgeRepo implements KnowledgeRepo with the ent SQL builder.
type knowledgeRepo struct {
	drv *entsql.Driver
}

func (r *knowledgeRepo) Load(ctx context.Context) (inference.KnowledgeBase, error) {
	var kb inference.KnowledgeBase

	symptoms, err := r.Symptoms(ctx)
	if err != nil {
		return kb, err
	}
	kb.Symptoms = symptoms

	majors, index, err := r.majors(ctx)
	if err != nil {
		return kb, err
	}

	// Alias before building columns: Join renames a bare table to t1.
	rules := sqlite.Table(RulesTable.Name).As("r")
	symptomsT := sqlite.Table(SymptomsTable.Name).As("s")
	query, args := sqlite.Select(rules.C("major_id"), symptomsT.C("code"), rules.C("expert_cf")).
		From(rules).
		Join(symptomsT).On(rules.C("symptom_id"), symptomsT.C("id")).
		OrderBy(rules.C("major_id"), rules.C("position")).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return kb, fmt.Errorf("query rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			majorID  int
			code     int
			expertCF float64
		)
		if err := rows.Scan(&majorID, &code, &expertCF); err != nil {
			return kb, fmt.Errorf("scan rule: %w", err)
		}
		i, ok := index[majorID]
		if !ok {
			return kb, fmt.Errorf("rule references unknown major id %d", majorID)
		}
		majors[i].Rules = append(majors[i].Rules, inference.Rule{
			Symptom:  inference.SymptomCode(code),
			ExpertCF: expertCF,
		})
	}
	if err := rows.Err(); err != nil {
		return kb, fmt.Errorf("iterate rules: %w", err)
	}

	kb.Majors = majors
	return kb, nil
}

// majors returns majors in position order and an index from row ID to
// slice position.
func (r *knowledgeRepo) majors(ctx context.Context) ([]inference.Major, map[int]int, error) {
	query, args := sqlite.Select("id", "code", "name", "description", "solution", "notes", "image_url").
		From(sqlite.Table(MajorsTable.Name)).
		OrderBy("position").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, nil, fmt.Errorf("query majors: %w", err)
	}
	defer rows.Close()

	var majors []inference.Major
	index := make(map[int]int)
	for rows.Next() {
		var (
			id, code int
			m        inference.Major
		)
		if err := rows.Scan(&id, &code, &m.Name, &m.Description, &m.Solution, &m.Notes, &m.ImageURL); err != nil {
			return nil, nil, fmt.Errorf("scan major: %w", err)
		}
		m.Code = inference.MajorCode(code)
		index[id] = len(majors)
		majors = append(majors, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate majors: %w", err)
	}
	return majors, index, nil
}

func (r *knowledgeRepo) Symptoms(ctx context.Context) ([]inference.Symptom, error) {
	query, args := sqlite.Select("code", "info", "image_url").
		From(sqlite.Table(SymptomsTable.Name)).
		OrderBy("code").
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query symptoms: %w", err)
	}
	defer rows.Close()

	var out []inference.Symptom
	for rows.Next() {
		var (
			code int
			s    inference.Symptom
		)
		if err := rows.Scan(&code, &s.Info, &s.ImageURL); err != nil {
			return nil, fmt.Errorf("scan symptom: %w", err)
		}
		s.Code = inference.SymptomCode(code)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate symptoms: %w", err)
	}
	return out, nil
}

func (r *knowledgeRepo) Empty(ctx context.Context) (bool, error) {
	query, args := sqlite.Select(entsql.Count("*")).
		From(sqlite.Table(MajorsTable.Name)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return false, fmt.Errorf("count majors: %w", err)
	}
	defer rows.Close()

	var n int
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return false, fmt.Errorf("scan count: %w", err)
		}
	}
	return n == 0, rows.Err()
}

func (r *knowledgeRepo) Replace(ctx context.Context, kb inference.KnowledgeBase) (err error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{RulesTable.Name, MajorsTable.Name, SymptomsTable.Name} {
		query, args := sqlite.Delete(table).Query()
		if err = tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	symptomIDs := make(map[inference.SymptomCode]int, len(kb.Symptoms))
	for _, s := range kb.Symptoms {
		query, args := sqlite.Insert(SymptomsTable.Name).
			Columns("code", "info", "image_url").
			Values(int(s.Code), s.Info, s.ImageURL).
			Query()
		id, ierr := insert(ctx, tx, query, args)
		if ierr != nil {
			err = fmt.Errorf("insert symptom %d: %w", s.Code, ierr)
			return err
		}
		symptomIDs[s.Code] = id
	}

	for pos, m := range kb.Majors {
		query, args := sqlite.Insert(MajorsTable.Name).
			Columns("code", "position", "name", "description", "solution", "notes", "image_url").
			Values(int(m.Code), pos, m.Name, m.Description, m.Solution, m.Notes, m.ImageURL).
			Query()
		majorID, ierr := insert(ctx, tx, query, args)
		if ierr != nil {
			err = fmt.Errorf("insert major %q: %w", m.Name, ierr)
			return err
		}

		for rpos, rule := range m.Rules {
			symptomID, ok := symptomIDs[rule.Symptom]
			if !ok {
				err = fmt.Errorf("major %q references unknown symptom %d", m.Name, rule.Symptom)
				return err
			}
			query, args := sqlite.Insert(RulesTable.Name).
				Columns("position", "expert_cf", "major_id", "symptom_id").
				Values(rpos, rule.ExpertCF, majorID, symptomID).
				Query()
			if _, ierr := insert(ctx, tx, query, args); ierr != nil {
				err = fmt.Errorf("insert rule %q/%d: %w", m.Name, rule.Symptom, ierr)
				return err
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// insert executes an INSERT and returns the new row ID.
func insert(ctx context.Context, ex dialect.ExecQuerier, query string, args []any) (int, error) {
	var res stdsql.Result
	if err := ex.Exec(ctx, query, args, &res); err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}
	return safecast.Conv[int](id)
}
