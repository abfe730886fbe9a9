package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifetime_CloseRunsTeardownInReverse(t *testing.T) {
	l := NewLifetime()
	var order []int
	l.Add(func() { order = append(order, 1) })
	l.Add(func() { order = append(order, 2) })
	assert.False(t, l.Closed())

	l.Close()
	l.Close()

	assert.Equal(t, []int{2, 1}, order)
	assert.True(t, l.Closed())
	select {
	case <-l.Done():
	default:
		t.Fatal("Done should be closed")
	}
}

func TestLifetime_AddAfterCloseRunsImmediately(t *testing.T) {
	l := NewLifetime()
	l.Close()

	ran := false
	l.Add(func() { ran = true })

	assert.True(t, ran)
}
