package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Depth       int
	Duration    time.Duration
	Nodes       int64 // Interior nodes expanded
	Leaves      int64 // Leaf utility evaluations
	Evaluations int64 // Utility evaluations spent on move ordering
	Cutoffs     int64
}

type MoveMetric struct {
	Step   int
	Player string // Player ID
	Move   string
	SearchMetric
}

type GameMetric struct {
	StartingPlayer string // Player ID
	Winner         string // Player ID, "" on a draw
	Scores         map[string]float64
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
	TotalMoves     int
}

type Collector interface {
	Start(depth int)
	AddNode()
	AddLeaf()
	AddEvaluation()
	AddCutoff()
	Complete() SearchMetric
}

type collector struct {
	depth       atomic.Int32
	startTime   time.Time
	nodes       atomic.Int64
	leaves      atomic.Int64
	evaluations atomic.Int64
	cutoffs     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

// Start resets the counters for a new search.
func (m *collector) Start(depth int) {
	m.startTime = time.Now()
	m.depth.Store(int32(depth))
	m.nodes.Store(0)
	m.leaves.Store(0)
	m.evaluations.Store(0)
	m.cutoffs.Store(0)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddLeaf() {
	m.leaves.Add(1)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Depth:       int(m.depth.Load()),
		Duration:    time.Since(m.startTime),
		Nodes:       m.nodes.Load(),
		Leaves:      m.leaves.Load(),
		Evaluations: m.evaluations.Load(),
		Cutoffs:     m.cutoffs.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth int)        {}
func (m *dummyCollector) AddNode()               {}
func (m *dummyCollector) AddLeaf()               {}
func (m *dummyCollector) AddEvaluation()         {}
func (m *dummyCollector) AddCutoff()             {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
