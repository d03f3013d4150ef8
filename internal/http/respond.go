package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/auth"
	cartrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/repository"
	cartsvc "github.com/owaisraza72/Full-Stack-E-Commerce/internal/cart/service"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	ordersrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/orders/repository"
	productsrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/products/repository"
	usersrepo "github.com/owaisraza72/Full-Stack-E-Commerce/internal/users/repository"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

var (
	errUnauthorized = errors.New("unauthorized access, please login first")
	errForbidden    = errors.New("access denied")
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeAndValidate reads a JSON body into dst and runs its validate tags.
// It writes the 400 response itself and reports whether the caller may go on.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return false
		}
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondError(w, http.StatusBadRequest, "validation_failed", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "invalid request"
	}
	fe := errs[0]
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "url":
		return field + " must be a valid URL"
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s must contain at least %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

// handleServiceError maps domain errors onto HTTP statuses. Anything
// unrecognised is logged and reported as a generic 500.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var httpStatus int
	var code, message string

	switch {
	case errors.Is(err, errUnauthorized), errors.Is(err, auth.ErrInvalidToken):
		httpStatus, code, message = http.StatusUnauthorized, "unauthorized", errUnauthorized.Error()
	case errors.Is(err, errForbidden):
		httpStatus, code, message = http.StatusForbidden, "forbidden", errForbidden.Error()
	case errors.Is(err, auth.ErrInvalidCredentials):
		httpStatus, code, message = http.StatusBadRequest, "invalid_credentials", auth.ErrInvalidCredentials.Error()
	case errors.Is(err, auth.ErrWeakPassword):
		httpStatus, code, message = http.StatusBadRequest, "weak_password", auth.ErrWeakPassword.Error()
	case errors.Is(err, domain.ErrInvalidRole):
		httpStatus, code, message = http.StatusBadRequest, "invalid_role", domain.ErrInvalidRole.Error()
	case errors.Is(err, usersrepo.ErrEmailTaken):
		httpStatus, code, message = http.StatusBadRequest, "user_exists", usersrepo.ErrEmailTaken.Error()
	case errors.Is(err, cartsvc.ErrInvalidQuantity):
		httpStatus, code, message = http.StatusBadRequest, "invalid_quantity", cartsvc.ErrInvalidQuantity.Error()
	case errors.Is(err, usersrepo.ErrUserNotFound):
		httpStatus, code, message = http.StatusNotFound, "user_not_found", usersrepo.ErrUserNotFound.Error()
	case errors.Is(err, productsrepo.ErrProductNotFound):
		httpStatus, code, message = http.StatusNotFound, "product_not_found", productsrepo.ErrProductNotFound.Error()
	case errors.Is(err, cartrepo.ErrCartNotFound):
		httpStatus, code, message = http.StatusNotFound, "cart_not_found", cartrepo.ErrCartNotFound.Error()
	case errors.Is(err, cartrepo.ErrItemNotFound):
		httpStatus, code, message = http.StatusNotFound, "item_not_found", cartrepo.ErrItemNotFound.Error()
	case errors.Is(err, ordersrepo.ErrOrderNotFound):
		httpStatus, code, message = http.StatusNotFound, "order_not_found", ordersrepo.ErrOrderNotFound.Error()
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus, code, message = http.StatusGatewayTimeout, "timeout", "request timed out"
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		httpStatus, code, message = http.StatusInternalServerError, "internal_error", "internal server error"
	}

	respondError(w, httpStatus, code, message)
}
