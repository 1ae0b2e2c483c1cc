package auth

import "strings"

// Outcome is the terminal state of the gate for one request.
type Outcome int

const (
	Rejected Outcome = iota
	Authorized
)

func (o Outcome) String() string {
	if o == Authorized {
		return "authorized"
	}
	return "rejected"
}

// Decision is the tagged result of evaluating a request. Reason and Err are
// set only when Outcome is Rejected; Auth only when Authorized.
type Decision struct {
	Outcome Outcome
	Reason  Reason
	Auth    *AuthContext
	Err     error
}

func reject(err error) Decision {
	reason, ok := ReasonOf(err)
	if !ok {
		reason = ReasonMalformedToken
	}
	return Decision{Outcome: Rejected, Reason: reason, Err: err}
}

// Gate converts a bearer credential into a trusted AuthContext.
type Gate struct {
	codec *TokenCodec
}

// NewGate builds a gate over codec.
func NewGate(codec *TokenCodec) *Gate {
	return &Gate{codec: codec}
}

// Evaluate runs the gate against the raw Authorization header value.
func (g *Gate) Evaluate(authorization string) Decision {
	token, ok := bearerToken(authorization)
	if !ok {
		return reject(newError(ReasonMissingToken, "no bearer credential", nil))
	}

	claims, err := g.codec.Verify(token)
	if err != nil {
		return reject(err)
	}
	return Decision{Outcome: Authorized, Auth: newAuthContext(claims)}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
