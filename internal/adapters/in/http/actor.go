package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"time"

	"atelier/internal/core/application/usecases/queries"
	"atelier/internal/core/domain/model/department"
	"atelier/internal/core/domain/model/kernel"
	"atelier/internal/core/domain/model/worker"
	"atelier/internal/pkg/errs"

	jwtmiddleware "github.com/auth0/go-jwt-middleware/v2"
	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/labstack/echo/v4"
)

const (
	actorContextKey = "actor"

	// HeaderActorID identifies the calling worker when no identity provider is configured.
	HeaderActorID = "X-Actor-ID"
	// HeaderActorDepartment picks the department a multi-department worker acts for.
	HeaderActorDepartment = "X-Actor-Department"
)

// Claims are the custom claims the identity provider adds to access tokens.
type Claims struct {
	Role       string `json:"https://atelier/role"`
	Department string `json:"https://atelier/department"`
	WorkerID   string `json:"https://atelier/worker_id"`
}

// Validate rejects tokens without a known role.
func (c *Claims) Validate(_ context.Context) error {
	_, err := worker.ParseRole(c.Role)
	return err
}

// NewAuth0TokenValidator validates RS256 tokens issued by the Auth0 tenant
// for the audience, with keys fetched from the tenant's JWKS endpoint.
func NewAuth0TokenValidator(domain, audience string) (jwtmiddleware.ValidateToken, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, fmt.Errorf("parse issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	jwtValidator, err := validator.New(
		provider.KeyFunc,
		validator.RS256,
		issuerURL.String(),
		[]string{audience},
		validator.WithCustomClaims(
			func() validator.CustomClaims {
				return &Claims{}
			},
		),
		validator.WithAllowedClockSkew(time.Minute),
	)
	if err != nil {
		return nil, fmt.Errorf("set up jwt validator: %w", err)
	}

	return jwtValidator.ValidateToken, nil
}

// TokenActor authenticates bearer tokens and stores the actor described by
// their claims. The worker id claim wins over the token subject.
func TokenActor(validate jwtmiddleware.ValidateToken) echo.MiddlewareFunc {
	middleware := jwtmiddleware.New(
		validate,
		jwtmiddleware.WithErrorHandler(func(w http.ResponseWriter, _ *http.Request, err error) {
			resp := errorResponseOf(errors.Join(errUnauthenticated, err))
			w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w.WriteHeader(resp.Code)
			_ = json.NewEncoder(w).Encode(resp)
		}),
	)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var handlerErr error
			middleware.CheckJWT(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				claims, ok := r.Context().Value(jwtmiddleware.ContextKey{}).(*validator.ValidatedClaims)
				if !ok {
					handlerErr = errUnauthenticated
					return
				}

				actor, err := actorFromClaims(claims)
				if err != nil {
					handlerErr = err
					return
				}

				c.SetRequest(r)
				c.Set(actorContextKey, actor)
				handlerErr = next(c)
			})).ServeHTTP(c.Response(), c.Request())
			return handlerErr
		}
	}
}

func actorFromClaims(claims *validator.ValidatedClaims) (worker.Actor, error) {
	custom, ok := claims.CustomClaims.(*Claims)
	if !ok {
		return worker.Actor{}, errUnauthenticated
	}

	role, err := worker.ParseRole(custom.Role)
	if err != nil {
		return worker.Actor{}, errors.Join(errUnauthenticated, err)
	}

	subject := custom.WorkerID
	if subject == "" {
		subject = claims.RegisteredClaims.Subject
	}
	id, err := kernel.UUIDFromString(subject)
	if err != nil {
		return worker.Actor{}, errors.Join(errUnauthenticated, err)
	}

	dept := kernel.None[department.Department]()
	if custom.Department != "" {
		d, parseErr := department.Parse(custom.Department)
		if parseErr != nil {
			return worker.Actor{}, errors.Join(errUnauthenticated, parseErr)
		}
		dept = kernel.Some(d)
	}

	actor, err := worker.NewActor(id, role, dept)
	if err != nil {
		return worker.Actor{}, errors.Join(errUnauthenticated, err)
	}
	return actor, nil
}

// HeaderActor resolves the X-Actor-ID header through the worker directory.
// It is meant for deployments behind a trusted gateway and for local runs.
func HeaderActor(workers Handler[queries.GetWorkerQuery, queries.GetWorkerQueryResponse]) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(HeaderActorID)
			if header == "" {
				return errUnauthenticated
			}
			id, err := kernel.UUIDFromString(header)
			if err != nil {
				return errors.Join(errUnauthenticated, err)
			}

			query, err := queries.NewGetWorkerQuery(id)
			if err != nil {
				return errors.Join(errUnauthenticated, err)
			}
			found, err := workers.Handle(c.Request().Context(), query)
			if errors.Is(err, errs.ErrObjectNotFound) {
				return errors.Join(errUnauthenticated, err)
			}
			if err != nil {
				return err
			}

			actor, err := headerActor(found, c.Request().Header.Get(HeaderActorDepartment))
			if err != nil {
				return err
			}

			c.Set(actorContextKey, actor)
			return next(c)
		}
	}
}

func headerActor(found queries.GetWorkerQueryResponse, claimed string) (worker.Actor, error) {
	w, err := worker.RestoreWorker(found.ID, found.Name, found.Role, found.Departments)
	if err != nil {
		return worker.Actor{}, err
	}
	if claimed == "" {
		return worker.ActorOf(w), nil
	}

	d, err := department.Parse(claimed)
	if err != nil {
		return worker.Actor{}, err
	}
	if !slices.Contains(w.Departments(), d) {
		return worker.Actor{}, errs.NewForbiddenError(fmt.Sprintf("worker does not work in %s", d))
	}
	return worker.NewActor(w.ID(), w.Role(), kernel.Some(d))
}

func actorOf(c echo.Context) (worker.Actor, error) {
	actor, ok := c.Get(actorContextKey).(worker.Actor)
	if !ok {
		return worker.Actor{}, errUnauthenticated
	}
	return actor, nil
}

// authorize returns the actor when it holds at least one of the capabilities.
func authorize(c echo.Context, capabilities ...worker.Capability) (worker.Actor, error) {
	actor, err := actorOf(c)
	if err != nil {
		return worker.Actor{}, err
	}
	if slices.ContainsFunc(capabilities, actor.Can) {
		return actor, nil
	}
	return worker.Actor{}, errs.NewForbiddenError(fmt.Sprintf("role %s is not allowed to %s %s",
		actor.Role(), c.Request().Method, c.Path()))
}

// authorizeRole returns the actor when it has exactly the role.
func authorizeRole(c echo.Context, role worker.Role) (worker.Actor, error) {
	actor, err := actorOf(c)
	if err != nil {
		return worker.Actor{}, err
	}
	if actor.Role() != role {
		return worker.Actor{}, errs.NewForbiddenError(fmt.Sprintf("role %s is not allowed to %s %s",
			actor.Role(), c.Request().Method, c.Path()))
	}
	return actor, nil
}
