package metrics

// IncrementCommentCreated counts a new comment under its initial status
func (m *Metrics) IncrementCommentCreated(status string) {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentsCreatedTotal.WithLabelValues(status).Inc()
	})
}

// AddModerationActions counts comments changed by one moderation request
func (m *Metrics) AddModerationActions(action string, comments int) {
	m.safeExecute("AddModerationActions", func() {
		m.ModerationActionsTotal.WithLabelValues(action).Add(float64(comments))
	})
}

// IncrementCommentReported counts a filed report
func (m *Metrics) IncrementCommentReported() {
	m.safeExecute("IncrementCommentReported", func() {
		m.CommentReportsTotal.Inc()
	})
}

// IncrementCommentAutoFlagged counts a comment crossing the report threshold
func (m *Metrics) IncrementCommentAutoFlagged() {
	m.safeExecute("IncrementCommentAutoFlagged", func() {
		m.CommentsAutoFlaggedTotal.Inc()
	})
}

// AddNotificationsDispatched counts outbox rows by result: sent, retry or failed
func (m *Metrics) AddNotificationsDispatched(result string, count int) {
	m.safeExecute("AddNotificationsDispatched", func() {
		m.NotificationsSentTotal.WithLabelValues(result).Add(float64(count))
	})
}

// SetCommentsByStatus replaces the per-status gauge. Statuses missing from
// counts are set to zero.
func (m *Metrics) SetCommentsByStatus(statuses []string, counts map[string]int64) {
	m.safeExecute("SetCommentsByStatus", func() {
		for _, s := range statuses {
			m.CommentsByStatus.WithLabelValues(s).Set(float64(counts[s]))
		}
	})
}
