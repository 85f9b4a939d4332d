package confirmation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestGenerator() *Generator {
	return NewGenerator("test-secret", 10*time.Minute)
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newTestGenerator()
	fp := Fingerprint{Username: "alice", Email: "alice@example.com", Role: "user"}

	first := g.Generate(fp, testTime)
	second := g.Generate(fp, testTime)

	assert.Equal(t, first, second)
	assert.Len(t, first, CodeLength)
}

func TestVerifyAcceptsCurrentWindow(t *testing.T) {
	g := newTestGenerator()
	fp := Fingerprint{Username: "alice", Email: "alice@example.com", Role: "user"}

	code := g.Generate(fp, testTime)

	ok, window := g.Verify(fp, code, testTime)
	require.True(t, ok)
	assert.Equal(t, g.WindowIndex(testTime), window)
}

func TestVerifyAcceptsPreviousWindow(t *testing.T) {
	g := newTestGenerator()
	fp := Fingerprint{Username: "alice", Email: "alice@example.com", Role: "user"}

	code := g.Generate(fp, testTime)

	// Presented one window later - still inside the skew tolerance.
	ok, window := g.Verify(fp, code, testTime.Add(10*time.Minute))
	require.True(t, ok)
	assert.Equal(t, g.WindowIndex(testTime), window)
}

func TestVerifyRejectsExpiredWindow(t *testing.T) {
	g := newTestGenerator()
	fp := Fingerprint{Username: "alice", Email: "alice@example.com", Role: "user"}

	code := g.Generate(fp, testTime)

	ok, _ := g.Verify(fp, code, testTime.Add(20*time.Minute))
	assert.False(t, ok)
}

func TestCodeIsBoundToIdentity(t *testing.T) {
	g := newTestGenerator()
	alice := Fingerprint{Username: "alice", Email: "alice@example.com", Role: "user"}
	bob := Fingerprint{Username: "bob", Email: "bob@example.com", Role: "user"}

	code := g.Generate(alice, testTime)

	ok, _ := g.Verify(bob, code, testTime)
	assert.False(t, ok, "code issued for alice must not validate for bob")
}

func TestCodeDiesWhenIdentityStateChanges(t *testing.T) {
	g := newTestGenerator()
	fp := Fingerprint{Username: "alice", Email: "alice@example.com", Role: "user"}

	code := g.Generate(fp, testTime)

	// Consuming a code bumps the window marker, which feeds the fingerprint.
	fp.ConsumedWindow = g.WindowIndex(testTime)
	ok, _ := g.Verify(fp, code, testTime)
	assert.False(t, ok, "replay after consumption must fail")

	// A role change invalidates outstanding codes too.
	fp = Fingerprint{Username: "alice", Email: "alice@example.com", Role: "moderator"}
	ok, _ = g.Verify(fp, code, testTime)
	assert.False(t, ok)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	g := newTestGenerator()
	fp := Fingerprint{Username: "alice", Email: "alice@example.com", Role: "user"}

	ok, _ := g.Verify(fp, "", testTime)
	assert.False(t, ok)

	ok, _ = g.Verify(fp, "not-a-real-code!", testTime)
	assert.False(t, ok)
}
