package store

import (
	"context"
	"strings"
	"time"
)

// SearchHit is one match from a cross-category search: the category it came
// from and the primary text field that matched.
type SearchHit struct {
	Category  string    `json:"category"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// Search runs a case-insensitive substring match over the primary text
// fields of all five category tables, newest matches first, capped at
// limit. An empty term returns nothing, never the whole dataset. The union
// runs as a single statement, so the result is one consistent snapshot.
func (db *DB) Search(ctx context.Context, userID, term string, limit int) ([]SearchHit, error) {
	if err := validateUser(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(term) == "" {
		return nil, nil
	}
	pattern := "%" + escapeLike(term) + "%"
	rows, err := db.QueryContext(ctx, `
		SELECT category, text, created_at FROM (
			SELECT 'note' AS category, note AS text, created_at, id FROM user_notes
				WHERE user_id = ?1 AND note LIKE ?2 ESCAPE '\'
			UNION ALL
			SELECT 'credential', label, created_at, id FROM user_credentials
				WHERE user_id = ?1 AND label LIKE ?2 ESCAPE '\'
			UNION ALL
			SELECT 'password', label, created_at, id FROM user_passwords
				WHERE user_id = ?1 AND label LIKE ?2 ESCAPE '\'
			UNION ALL
			SELECT 'email', email, created_at, id FROM user_emails
				WHERE user_id = ?1 AND email LIKE ?2 ESCAPE '\'
			UNION ALL
			SELECT 'link', url, created_at, id FROM user_links
				WHERE user_id = ?1 AND url LIKE ?2 ESCAPE '\'
		)
		ORDER BY created_at DESC, id DESC LIMIT ?3`,
		userID, pattern, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []SearchHit
	for rows.Next() {
		var h SearchHit
		if err := rows.Scan(&h.Category, &h.Text, &h.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// escapeLike neutralizes LIKE metacharacters so a term is always a literal
// substring match.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
