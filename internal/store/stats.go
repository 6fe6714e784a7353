package store

import (
	"context"
	"fmt"
	"time"
)

// TopicCount is how often the assistant answered on a topic.
type TopicCount struct {
	Topic string `json:"topic"`
	Count int64  `json:"count"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64        `json:"total_visitors"`
	UniqueVisitors   int64        `json:"unique_visitors"`
	VisitorsToday    int64        `json:"visitors_today"`
	VisitorsThisWeek int64        `json:"visitors_this_week"`
	ChatSessions     int64        `json:"chat_sessions"`
	ChatMessages     int64        `json:"chat_messages"`
	TopTopics        []TopicCount `json:"top_topics"`
	RecentVisitors   []Visit      `json:"recent_visitors"`
}

// Stats summarises traffic and chat use as of now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	stats := &Stats{}

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{today}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{now.AddDate(0, 0, -7)}},
		{&stats.ChatSessions, `SELECT COUNT(DISTINCT session_id) FROM chat_messages`, nil},
		{&stats.ChatMessages, `SELECT COUNT(*) FROM chat_messages`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("computing stats: %w", err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT topic, COUNT(*) AS n
		FROM chat_messages
		WHERE speaker = 'assistant'
		GROUP BY topic
		ORDER BY n DESC, topic
		LIMIT 10`)
	if err != nil {
		return nil, fmt.Errorf("querying topics: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var tc TopicCount
		if err := rows.Scan(&tc.Topic, &tc.Count); err != nil {
			return nil, fmt.Errorf("scanning topic: %w", err)
		}
		stats.TopTopics = append(stats.TopTopics, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.RecentVisitors, err = s.RecentVisits(ctx, 50); err != nil {
		return nil, err
	}
	return stats, nil
}
