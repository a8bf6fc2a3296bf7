package goroutine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type testsuite struct {
	suite.Suite
}

func Test(t *testing.T) {
	suite.Run(t, new(testsuite))
}

func (ts *testsuite) TestNormalRun() {
	done := make(chan struct{})
	panicChan := RecoverableGo(func() {
		close(done)
	})
	select {
	case <-done:
	case <-time.After(time.Second):
		ts.Fail("goroutine did not run")
	}
	_, ok := <-panicChan
	ts.False(ok)
}

func (ts *testsuite) TestRecover() {
	recovered := make(chan interface{}, 1)
	panicChan := RecoverableGo(func() {
		panic("boom")
	}, WithAfterRecovered(func(p interface{}, stack []byte) {
		recovered <- p
	}))

	select {
	case p := <-panicChan:
		ts.Equal("boom", p.Panic)
	case <-time.After(time.Second):
		ts.Fail("panic not delivered")
	}
	ts.Equal("boom", <-recovered)
}
