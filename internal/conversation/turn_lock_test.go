package conversation

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurnLockNilIsNoOp(t *testing.T) {
	var l *TurnLock
	release := l.Acquire(context.Background(), "s1")
	require.NotNil(t, release)
	release()

	assert.Nil(t, NewTurnLock(nil, time.Second, time.Second))
}

func TestTurnLockAcquireRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	l := NewTurnLock(client, 5*time.Second, 0)
	require.NotNil(t, l)

	release := l.Acquire(context.Background(), "s1")
	assert.True(t, mr.Exists(turnLockKeyPrefix+"s1"))

	release()
	assert.False(t, mr.Exists(turnLockKeyPrefix+"s1"))
}

func TestTurnLockContentionProceedsAfterBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	l := NewTurnLock(client, 5*time.Second, 100*time.Millisecond)

	first := l.Acquire(context.Background(), "s1")
	defer first()

	// A second caller exhausts its wait budget and proceeds without the
	// lock; its release must not steal the first holder's lock.
	second := l.Acquire(context.Background(), "s1")
	second()
	assert.True(t, mr.Exists(turnLockKeyPrefix+"s1"))

	first()
	assert.False(t, mr.Exists(turnLockKeyPrefix+"s1"))
}

func TestTurnLockWaitsForRelease(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	l := NewTurnLock(client, 5*time.Second, 2*time.Second)

	release := l.Acquire(context.Background(), "s1")

	acquired := make(chan func(), 1)
	go func() {
		acquired <- l.Acquire(context.Background(), "s1")
	}()

	time.Sleep(100 * time.Millisecond)
	release()

	select {
	case release2 := <-acquired:
		assert.True(t, mr.Exists(turnLockKeyPrefix+"s1"))
		release2()
	case <-time.After(3 * time.Second):
		t.Fatal("second acquire never completed")
	}
}

func TestTurnLockEmptySessionIsNoOp(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	l := NewTurnLock(client, 5*time.Second, 0)
	release := l.Acquire(context.Background(), "")
	release()
	assert.Empty(t, mr.Keys())
}
