package memgraph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type call struct {
	Query  string
	Params map[string]interface{}
}

// MockDriver replays ResultQueue in order and records every call.
type MockDriver struct {
	Calls       []call
	ResultQueue []neo4j.EagerResult
	Err         error
	Closed      bool
}

func (m *MockDriver) ExecuteQuery(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	copied := make(map[string]interface{}, len(params))
	for k, v := range params {
		copied[k] = v
	}
	m.Calls = append(m.Calls, call{Query: query, Params: copied})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if len(m.ResultQueue) > 0 {
		res := m.ResultQueue[0]
		m.ResultQueue = m.ResultQueue[1:]
		return res, nil
	}
	return neo4j.EagerResult{}, nil
}

func (m *MockDriver) BuildIndices(ctx context.Context) error {
	return nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}

func (m *MockDriver) last() call {
	return m.Calls[len(m.Calls)-1]
}

var entryKeys = []string{"id", "owner_id", "title", "content", "mood", "tags", "summary", "has_summary", "created_ts", "updated_ts"}

func entryRecord(id, owner, title, content, mood string, tags []interface{}, summary string, createdTs int64, updatedTs interface{}) *neo4j.Record {
	return &neo4j.Record{
		Keys:   entryKeys,
		Values: []interface{}{id, owner, title, content, mood, tags, summary, summary != "", createdTs, updatedTs},
	}
}

func result(records ...*neo4j.Record) neo4j.EagerResult {
	return neo4j.EagerResult{Records: records}
}
