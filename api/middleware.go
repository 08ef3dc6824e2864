package api

import (
	"context"
	"net/http"
	"strings"

	scoringservice "github.com/hackboard-live/hackboard/app/modules/scoring/application"
	votingservice "github.com/hackboard-live/hackboard/app/modules/voting/application"
	"github.com/hackboard-live/hackboard/pkg/jwt"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

type judgeContextKey struct{}

// JudgeFromContext returns the judge identity set by RequireJudge.
func JudgeFromContext(ctx context.Context) (scoringservice.JudgeIdentity, bool) {
	judge, ok := ctx.Value(judgeContextKey{}).(scoringservice.JudgeIdentity)
	return judge, ok
}

// Auth guards routes with judge and admin requirements.
type Auth struct {
	jwtService jwt.Service
}

// NewAuth creates route guards backed by the JWT service.
func NewAuth(jwtService jwt.Service) *Auth {
	return &Auth{jwtService: jwtService}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}

// RequireJudge resolves the judge identity: an authenticated token when one
// is presented, otherwise the walk-up judge name header. Walk-up judges are
// keyed by the name they entered; two walk-ups sharing a name merge.
func (a *Auth) RequireJudge(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			claims, err := a.jwtService.ValidateToken(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			judgeID := sharedtypes.JudgeID(claims.Subject)
			judge := scoringservice.JudgeIdentity{ID: &judgeID, Name: claims.Name}
			ctx := context.WithValue(r.Context(), judgeContextKey{}, judge)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		if name := strings.TrimSpace(r.Header.Get("X-Judge-Name")); name != "" {
			judge := scoringservice.JudgeIdentity{Name: name}
			ctx := context.WithValue(r.Context(), judgeContextKey{}, judge)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		respondError(w, http.StatusUnauthorized, "judge identity required")
	})
}

// RequireAdmin guards organizer-only routes.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondError(w, http.StatusUnauthorized, "admin token required")
			return
		}
		claims, err := a.jwtService.ValidateToken(token)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		if claims.Role != string(jwt.RoleAdmin) {
			respondError(w, http.StatusForbidden, "admin role required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// voterSession extracts the anonymous voter session from the request.
func voterSession(r *http.Request) (votingservice.VoterSession, bool) {
	sessionID := strings.TrimSpace(r.Header.Get("X-Voter-Session"))
	if sessionID == "" {
		return votingservice.VoterSession{}, false
	}
	return votingservice.VoterSession{SessionID: sharedtypes.SessionID(sessionID)}, true
}
