package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/grouplib/library-api/internal/api/shared"
	"github.com/grouplib/library-api/internal/domain"
	"github.com/grouplib/library-api/internal/service"
)

// BookHandler handles book catalogue and lending HTTP requests
type BookHandler struct {
	bookService service.BookService
	validator   *validator.Validate
}

// NewBookHandler creates a new BookHandler
func NewBookHandler(bookService service.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		validator:   validator.New(),
	}
}

// RegisterBook handles POST /api/v1/books requests
func (h *BookHandler) RegisterBook(w http.ResponseWriter, r *http.Request) {
	var req RegisterBookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	book, err := h.bookService.RegisterBook(r.Context(), req.Name, domain.BookType(req.Type))
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, bookToDTOResponse(book))
}

// LoanBook handles POST /api/v1/books/loan requests
func (h *BookHandler) LoanBook(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.bookService.LoanBook(r.Context(), req.UserName, req.BookName); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ReturnBook handles PUT /api/v1/books/return requests
func (h *BookHandler) ReturnBook(w http.ResponseWriter, r *http.Request) {
	var req LoanRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.bookService.ReturnBook(r.Context(), req.UserName, req.BookName); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetLoanCount handles GET /api/v1/books/loan requests
func (h *BookHandler) GetLoanCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.bookService.CountActiveLoans(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoanCountResponse{Count: count})
}

// GetStatistics handles GET /api/v1/books/stat requests
func (h *BookHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.bookService.GetCategoryStatistics(r.Context())
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]CategoryStatResponse, 0, len(stats))
	for _, s := range stats {
		response = append(response, CategoryStatResponse{
			Type:  string(s.Type),
			Count: s.Count,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}
