package gradebook

import (
	"cmp"
	"slices"
	"strings"

	"github.com/roach88/gradebook/internal/grade"
)

// DefaultTopN is the number of students TopStudents reports by default.
const DefaultTopN = 3

// Ranking pairs a student with their average grade.
type Ranking struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
}

// ranked orders all students by descending average. Equal averages fall
// back to ascending name so the order is total and reproducible.
func (s *Store) ranked() []Ranking {
	out := make([]Ranking, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, Ranking{Name: name, Average: s.students[name].average()})
	}
	slices.SortStableFunc(out, func(a, b Ranking) int {
		if c := cmp.Compare(b.Average, a.Average); c != 0 {
			return c
		}
		return strings.Compare(a.Name, b.Name)
	})
	return out
}

// TopStudents returns up to n students with the highest averages.
// Ties are broken by name, ascending.
func (s *Store) TopStudents(n int) []Ranking {
	if n <= 0 {
		return []Ranking{}
	}
	all := s.ranked()
	if n < len(all) {
		all = all[:n]
	}
	return all
}

// BestAndWorst returns the first and last student of the TopStudents
// ordering. With one student both results are that student.
func (s *Store) BestAndWorst() (best, worst Ranking, err error) {
	if len(s.order) == 0 {
		return Ranking{}, Ranking{}, emptyStore("BestAndWorst", "no students to rank")
	}
	all := s.ranked()
	return all[0], all[len(all)-1], nil
}

// FindStudentsWithGrade returns, in store order, every student holding g
// in at least one course.
func (s *Store) FindStudentsWithGrade(g grade.Value) []string {
	out := []string{}
	for _, name := range s.order {
		if s.students[name].hasGrade(g) {
			out = append(out, name)
		}
	}
	return out
}

// GradeCount is the number of times one grade value was given.
type GradeCount struct {
	Grade grade.Value `json:"grade"`
	Count int         `json:"count"`
}

// Stats summarizes every grade in the book.
type Stats struct {
	Total int     `json:"total"`
	Mean  float64 `json:"mean"`

	// Counts holds one entry per grade value in enumeration order,
	// including values that were never given.
	Counts []GradeCount `json:"counts"`

	MostFrequent  grade.Value `json:"most_frequent"`
	LeastFrequent grade.Value `json:"least_frequent"`
}

// Count returns how many times g was given.
func (st Stats) Count(g grade.Value) int {
	for _, c := range st.Counts {
		if c.Grade == g {
			return c.Count
		}
	}
	return 0
}

// SystemStats computes totals over all students. Frequency ties go to the
// value that comes first in grade.All.
func (s *Store) SystemStats() (Stats, error) {
	counts := make(map[grade.Value]int, len(grade.All))
	total, sum := 0, 0
	for _, name := range s.order {
		st := s.students[name]
		for _, course := range st.courses {
			for _, g := range st.ledgers[course] {
				counts[g]++
				sum += g.Int()
				total++
			}
		}
	}
	if total == 0 {
		return Stats{}, emptyStore("SystemStats", "no grades recorded")
	}

	stats := Stats{
		Total:  total,
		Mean:   float64(sum) / float64(total),
		Counts: make([]GradeCount, 0, len(grade.All)),
	}
	most, least := -1, -1
	for _, g := range grade.All {
		n := counts[g]
		stats.Counts = append(stats.Counts, GradeCount{Grade: g, Count: n})
		if n > most {
			most, stats.MostFrequent = n, g
		}
		if least == -1 || n < least {
			least, stats.LeastFrequent = n, g
		}
	}
	return stats, nil
}
