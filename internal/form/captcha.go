// ABOUTME: Random-string captcha challenge for forms.
// ABOUTME: Usability throttle only, not a security control.

package form

import (
	"crypto/rand"
	"math/big"
)

// captchaAlphabet omits lookalike characters (0/O, 1/l/I) so the challenge
// stays readable.
const captchaAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

const captchaLength = 6

// Captcha holds one challenge and the user's latest attempt. Validity is
// recomputed on every input change.
type Captcha struct {
	challenge string
	input     string
}

// NewCaptcha generates a fresh challenge.
func NewCaptcha() *Captcha {
	return &Captcha{challenge: randomChallenge()}
}

func randomChallenge() string {
	max := big.NewInt(int64(len(captchaAlphabet)))
	out := make([]byte, captchaLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failure means the process is in a bad state;
			// fall back to the first character rather than panic.
			out[i] = captchaAlphabet[0]
			continue
		}
		out[i] = captchaAlphabet[n.Int64()]
	}
	return string(out)
}

// Challenge returns the current challenge string.
func (c *Captcha) Challenge() string {
	return c.challenge
}

// SetInput records the user's attempt and returns the new validity.
func (c *Captcha) SetInput(input string) bool {
	c.input = input
	return c.Valid()
}

// Valid is pure string equality between challenge and input.
func (c *Captcha) Valid() bool {
	return c.input == c.challenge
}

// Refresh replaces the challenge and clears the attempt.
func (c *Captcha) Refresh() {
	c.challenge = randomChallenge()
	c.input = ""
}
