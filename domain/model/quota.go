package model

// DefaultDailyQuota is the API's default per-day unit budget.
const DefaultDailyQuota int64 = 10000

// Quota counts down the API units left for a day. It only keeps books: a
// spent-out or negative Quota never blocks a call.
type Quota struct {
	remaining int64
	spent     int64
}

func NewQuota(remaining int64) *Quota {
	return &Quota{remaining: remaining}
}

// Spend records n units used by one outbound call.
func (q *Quota) Spend(n int64) {
	q.remaining -= n
	q.spent += n
}

func (q *Quota) Remaining() int64 { return q.remaining }

// Spent is the number of units used since the Quota was created.
func (q *Quota) Spent() int64 { return q.spent }
