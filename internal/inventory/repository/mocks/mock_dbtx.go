package mocks

import (
	"context"
	"database/sql"

	"github.com/stretchr/testify/mock"
)

type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	callArgs := make([]interface{}, 0, 2+len(args))
	callArgs = append(callArgs, ctx, query)
	callArgs = append(callArgs, args...)
	ret := m.Called(callArgs...)
	if res := ret.Get(0); res != nil {
		return res.(sql.Result), ret.Error(1)
	}
	return nil, ret.Error(1)
}

func (m *MockDBTX) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	ret := m.Called(ctx, query)
	if res := ret.Get(0); res != nil {
		return res.(*sql.Stmt), ret.Error(1)
	}
	return nil, ret.Error(1)
}

func (m *MockDBTX) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	callArgs := make([]interface{}, 0, 2+len(args))
	callArgs = append(callArgs, ctx, query)
	callArgs = append(callArgs, args...)
	ret := m.Called(callArgs...)
	if res := ret.Get(0); res != nil {
		return res.(*sql.Rows), ret.Error(1)
	}
	return nil, ret.Error(1)
}

func (m *MockDBTX) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	callArgs := make([]interface{}, 0, 2+len(args))
	callArgs = append(callArgs, ctx, query)
	callArgs = append(callArgs, args...)
	ret := m.Called(callArgs...)
	if res := ret.Get(0); res != nil {
		return res.(*sql.Row)
	}
	return nil
}

func (m *MockDBTX) Commit() error {
	return m.Called().Error(0)
}

func (m *MockDBTX) Rollback() error {
	return m.Called().Error(0)
}
