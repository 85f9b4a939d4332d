package confirmation

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base32"
	"encoding/binary"
	"io"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/hkdf"
)

// CodeLength is the number of characters in a confirmation code.
const CodeLength = 16

var codeEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// Fingerprint captures the identity state that seeds a code. A code stays
// valid only while every field here is unchanged: bumping ConsumedWindow on a
// successful exchange kills all previously issued codes, which is what makes
// a code single-use even inside its own time window.
type Fingerprint struct {
	Username       string
	Email          string
	Role           string
	ConsumedWindow int64
}

func (f Fingerprint) encode() []byte {
	return []byte(strings.Join([]string{
		f.Username,
		f.Email,
		f.Role,
		strconv.FormatInt(f.ConsumedWindow, 10),
	}, "\x00"))
}

// Generator derives and checks confirmation codes. Codes are never stored:
// verification re-derives the expected value and compares.
type Generator struct {
	secret []byte
	window time.Duration
}

func NewGenerator(secret string, window time.Duration) *Generator {
	return &Generator{secret: []byte(secret), window: window}
}

// WindowIndex maps a point in time onto the code rotation bucket.
func (g *Generator) WindowIndex(at time.Time) int64 {
	return at.Unix() / int64(g.window/time.Second)
}

// Generate returns the code for the current time window.
func (g *Generator) Generate(fp Fingerprint, at time.Time) string {
	return g.derive(fp, g.WindowIndex(at))
}

// Verify re-derives the expected code for the current and the immediately
// preceding window (delivery and clock skew tolerance) and compares in
// constant time. On success it reports the window the code was minted in so
// the caller can persist it as consumed.
func (g *Generator) Verify(fp Fingerprint, code string, at time.Time) (bool, int64) {
	current := g.WindowIndex(at)
	for _, w := range []int64{current, current - 1} {
		if hmac.Equal([]byte(g.derive(fp, w)), []byte(code)) {
			return true, w
		}
	}
	return false, 0
}

// derive computes HMAC(HKDF(secret, fingerprint), windowIndex) and renders it
// as lowercase base32. HKDF keys the MAC per identity so a code issued for
// one user can never validate for another.
func (g *Generator) derive(fp Fingerprint, window int64) string {
	kdf := hkdf.New(sha256.New, g.secret, nil, fp.encode())
	key := make([]byte, sha256.Size)
	if _, err := io.ReadFull(kdf, key); err != nil {
		// hkdf with sha256 can always produce 32 bytes
		panic(err)
	}

	mac := hmac.New(sha256.New, key)
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(window))
	mac.Write(buf[:])

	encoded := codeEncoding.EncodeToString(mac.Sum(nil))
	return strings.ToLower(encoded[:CodeLength])
}
