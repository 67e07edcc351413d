package report

import "sort"

// AssumedWorkingDays is the period a ranking treats as expected attendance.
const AssumedWorkingDays = 30

// RankingInput is one employee's lifetime attendance totals.
type RankingInput struct {
	EmployeeID       string
	Name             string
	Email            string
	OnTimeDays       int
	LateDays         int
	CompletedRecords int
	// TotalWorkMinutes sums whole minutes between check-in and check-out of completed records.
	TotalWorkMinutes int64
}

func (in RankingInput) AverageWorkHours() float64 {
	if in.CompletedRecords == 0 {
		return 0
	}
	return float64(in.TotalWorkMinutes) / float64(in.CompletedRecords) / 60
}

func AbsentDays(onTimeDays, lateDays int) int {
	return max(0, AssumedWorkingDays-onTimeDays-lateDays)
}

func Score(onTimeDays, lateDays, absentDays int, averageWorkHours float64) float64 {
	return float64(2*onTimeDays-lateDays-2*absentDays) + averageWorkHours/2
}

// RankEmployees scores every input and orders them best first. Equal scores keep input order.
func RankEmployees(inputs []RankingInput) []EmployeeRanking {
	rankings := make([]EmployeeRanking, 0, len(inputs))
	for _, in := range inputs {
		absent := AbsentDays(in.OnTimeDays, in.LateDays)
		avg := in.AverageWorkHours()
		rankings = append(rankings, EmployeeRanking{
			EmployeeID:       in.EmployeeID,
			Name:             in.Name,
			Email:            in.Email,
			OnTimeDays:       in.OnTimeDays,
			LateDays:         in.LateDays,
			AbsentDays:       absent,
			AverageWorkHours: avg,
			Score:            Score(in.OnTimeDays, in.LateDays, absent, avg),
		})
	}

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].Score > rankings[j].Score
	})
	return rankings
}
