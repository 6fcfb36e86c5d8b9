package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-jose/go-jose/v3"

	"certificate-api/internal/presentation/service"
	dErrors "certificate-api/pkg/domain-errors"
	"certificate-api/pkg/platform/httputil"
	"certificate-api/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks

// PresentationService produces certificate artifacts.
type PresentationService interface {
	VaccinationPDF(ctx context.Context, lookup service.Lookup) (*service.Artifact, error)
	VaccinationQR(ctx context.Context, lookup service.Lookup) (*service.Artifact, error)
	TestPDF(ctx context.Context, preEnrollmentCode string) (*service.Artifact, error)
	DCC(ctx context.Context, refID, outputType string) (*service.Artifact, error)
	SHC(ctx context.Context, refID, outputType string) (*service.Artifact, error)
	FHIR(ctx context.Context, refID string) (*service.Artifact, error)
	CertificateExists(ctx context.Context, preEnrollmentCode string) (bool, error)
}

// TokenVerifier authenticates callers. Both methods return the caller's
// subject key: the holder's phone number or the operator's username.
type TokenVerifier interface {
	VerifyCitizen(token string) (string, error)
	VerifyKeycloak(authorization string) (string, error)
}

// KeySet publishes the SMART Health Card verification keys.
type KeySet interface {
	PublicJWKS() (jose.JSONWebKeySet, error)
}

type Handler struct {
	service  PresentationService
	verifier TokenVerifier
	keys     KeySet
	logger   *slog.Logger
}

func New(svc PresentationService, verifier TokenVerifier, keys KeySet, logger *slog.Logger) *Handler {
	return &Handler{service: svc, verifier: verifier, keys: keys, logger: logger}
}

// Register mounts the certificate routes.
func (h *Handler) Register(r chi.Router) {
	r.Route("/certificate/api", func(r chi.Router) {
		// citizen portal
		r.Get("/certificate/{certificateId}", h.HandleCitizenCertificatePDF)
		r.Get("/certificate/QRCode/{certificateId}", h.HandleCitizenCertificateQR)

		// standards
		r.Get("/certificate/fhir", h.HandleFHIR)
		r.Get("/certificate/eu", h.HandleEU)
		r.Get("/certificate/shc", h.HandleSHC)

		// facility and operator portal
		r.Get("/certificatePDF", h.HandleCertificatePDFByID)
		r.Get("/certificatePDF/{preEnrollmentCode}", h.HandleCertificatePDF)
		r.Head("/certificatePDF/{preEnrollmentCode}", h.HandleCertificateExists)
		r.Get("/certificateQRCode/{preEnrollmentCode}", h.HandleCertificateQR)
		r.Get("/test/certificatePDF/{preEnrollmentCode}", h.HandleTestCertificatePDF)
	})
}

// RegisterWellKnown mounts the public key discovery route.
func (h *Handler) RegisterWellKnown(r chi.Router) {
	r.Get("/.well-known/jwks.json", h.HandleJWKS)
}

// HandleCitizenCertificatePDF handles GET /certificate/api/certificate/{certificateId}?authToken=...
func (h *Handler) HandleCitizenCertificatePDF(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.citizen(w, r)
	if !ok {
		return
	}
	h.respond(w, r)(h.service.VaccinationPDF(r.Context(), service.ByCertificateID(phone, chi.URLParam(r, "certificateId"))))
}

// HandleCitizenCertificateQR handles GET /certificate/api/certificate/QRCode/{certificateId}?authToken=...
func (h *Handler) HandleCitizenCertificateQR(w http.ResponseWriter, r *http.Request) {
	phone, ok := h.citizen(w, r)
	if !ok {
		return
	}
	h.respond(w, r)(h.service.VaccinationQR(r.Context(), service.ByCertificateID(phone, chi.URLParam(r, "certificateId"))))
}

// HandleCertificatePDFByID handles GET /certificate/api/certificatePDF?certificateId=...
func (h *Handler) HandleCertificatePDFByID(w http.ResponseWriter, r *http.Request) {
	username, ok := h.operator(w, r)
	if !ok {
		return
	}
	certificateID, ok := h.query(w, r, "certificateId")
	if !ok {
		return
	}
	h.respond(w, r)(h.service.VaccinationPDF(r.Context(), service.ByCertificateID(username, certificateID)))
}

// HandleCertificatePDF handles GET /certificate/api/certificatePDF/{preEnrollmentCode}
func (h *Handler) HandleCertificatePDF(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.operator(w, r); !ok {
		return
	}
	code := chi.URLParam(r, "preEnrollmentCode")
	h.respond(w, r)(h.service.VaccinationPDF(r.Context(), service.ByPreEnrollmentCode(code)))
}

// HandleCertificateQR handles GET /certificate/api/certificateQRCode/{preEnrollmentCode}
func (h *Handler) HandleCertificateQR(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.operator(w, r); !ok {
		return
	}
	code := chi.URLParam(r, "preEnrollmentCode")
	h.respond(w, r)(h.service.VaccinationQR(r.Context(), service.ByPreEnrollmentCode(code)))
}

// HandleTestCertificatePDF handles GET /certificate/api/test/certificatePDF/{preEnrollmentCode}
func (h *Handler) HandleTestCertificatePDF(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.operator(w, r); !ok {
		return
	}
	h.respond(w, r)(h.service.TestPDF(r.Context(), chi.URLParam(r, "preEnrollmentCode")))
}

// HandleCertificateExists handles HEAD /certificate/api/certificatePDF/{preEnrollmentCode}.
// It answers 200 when a certificate has been generated and 404 otherwise.
func (h *Handler) HandleCertificateExists(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.operator(w, r); !ok {
		return
	}
	exists, err := h.service.CertificateExists(r.Context(), chi.URLParam(r, "preEnrollmentCode"))
	switch {
	case err != nil:
		w.WriteHeader(httputil.DomainCodeToHTTPStatus(dErrors.CodeOf(err)))
	case exists:
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

// HandleFHIR handles GET /certificate/api/certificate/fhir?refId=...
func (h *Handler) HandleFHIR(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.operator(w, r); !ok {
		return
	}
	refID, ok := h.query(w, r, "refId")
	if !ok {
		return
	}
	h.respond(w, r)(h.service.FHIR(r.Context(), refID))
}

// HandleEU handles GET /certificate/api/certificate/eu?refId=...&type=qrcode
func (h *Handler) HandleEU(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.operator(w, r); !ok {
		return
	}
	refID, ok := h.query(w, r, "refId")
	if !ok {
		return
	}
	h.respond(w, r)(h.service.DCC(r.Context(), refID, r.URL.Query().Get("type")))
}

// HandleSHC handles GET /certificate/api/certificate/shc?refId=...&type=qrcode
func (h *Handler) HandleSHC(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.operator(w, r); !ok {
		return
	}
	refID, ok := h.query(w, r, "refId")
	if !ok {
		return
	}
	h.respond(w, r)(h.service.SHC(r.Context(), refID, r.URL.Query().Get("type")))
}

// HandleJWKS handles GET /.well-known/jwks.json
func (h *Handler) HandleJWKS(w http.ResponseWriter, r *http.Request) {
	set, err := h.keys.PublicJWKS()
	if err != nil {
		h.logger.WarnContext(r.Context(), "jwks unavailable", "error", err, "request_id", requestcontext.RequestID(r.Context()))
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	httputil.WriteJSON(w, http.StatusOK, set)
}

func (h *Handler) citizen(w http.ResponseWriter, r *http.Request) (string, bool) {
	phone, err := h.verifier.VerifyCitizen(r.URL.Query().Get("authToken"))
	if err != nil {
		h.reject(w, r, err)
		return "", false
	}
	return phone, true
}

func (h *Handler) operator(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, err := h.verifier.VerifyKeycloak(r.Header.Get("Authorization"))
	if err != nil {
		h.reject(w, r, err)
		return "", false
	}
	return username, true
}

// reject answers a failed token check. Every verification failure is a 403.
func (h *Handler) reject(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.InfoContext(r.Context(), "token rejected",
		"route", r.URL.Path,
		"error", err,
		"request_id", requestcontext.RequestID(r.Context()),
	)
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusForbidden)
		return
	}
	httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeForbidden, "forbidden"))
}

func (h *Handler) query(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, name+" is required"))
		return "", false
	}
	return value, true
}

// respond writes either the artifact or the failure event body.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request) func(*service.Artifact, error) {
	return func(artifact *service.Artifact, err error) {
		if err == nil {
			httputil.WriteBody(w, http.StatusOK, artifact.ContentType, artifact.Body)
			return
		}
		var f *service.Failure
		if errors.As(err, &f) {
			httputil.WriteJSON(w, httputil.DomainCodeToHTTPStatus(f.Kind), f.Event())
			return
		}
		h.logger.ErrorContext(r.Context(), "unexpected presentation error", "error", err, "request_id", requestcontext.RequestID(r.Context()))
		httputil.WriteError(w, err)
	}
}
