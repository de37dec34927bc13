package services

import (
	"errors"

	"github.com/yungbote/cecredit-backend/internal/platform/apierr"
)

var (
	ErrInvalidCredentials = apierr.Unauthorized("invalid_credentials", errors.New("invalid email or password"))
	ErrEmailTaken         = apierr.BadRequest("email_taken", errors.New("email already registered"))
	ErrUnauthenticated    = apierr.Unauthorized("unauthenticated", errors.New("authentication required"))

	ErrEnrollmentNotFound   = apierr.NotFound("enrollment_not_found", errors.New("enrollment not found"))
	ErrEnrollmentNotOwned   = apierr.Forbidden("enrollment_forbidden", errors.New("enrollment does not belong to caller"))
	ErrEnrollmentIncomplete = apierr.BadRequest("enrollment_incomplete", errors.New("enrollment is not completed"))
	ErrProfileIncomplete    = apierr.BadRequest("profile_incomplete", errors.New("profile has no name to print"))

	ErrCertificateNotFound  = apierr.NotFound("certificate_not_found", errors.New("certificate not found"))
	ErrCertificateForbidden = apierr.Forbidden("certificate_forbidden", errors.New("certificate does not belong to caller"))

	ErrMissingVerifyParams = apierr.BadRequest("missing_parameters", errors.New("cert and code are required"))
	ErrTooManyAttempts     = apierr.TooManyRequests("too_many_attempts", errors.New("too many failed verification attempts, try again later"))
	ErrVerificationFailed  = apierr.NotFound("invalid_certificate", errors.New("certificate not found or code invalid"))

	ErrLessonNotFound = apierr.NotFound("lesson_not_found", errors.New("lesson not found"))
	ErrQuizNotFound   = apierr.NotFound("quiz_not_found", errors.New("lesson has no quiz"))

	ErrRateLimited = apierr.TooManyRequests("rate_limited", errors.New("too many requests"))
)
