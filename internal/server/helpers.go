package server

import (
	"errors"
	"io"
	"strings"
	"unicode"

	"secretguest/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper.  Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const (
	maxPaginationLimit = 100
)

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
// The error message is derived from the parameter name (e.g. "id" -> "Invalid ID",
// "hotelId" -> "Invalid hotel ID").
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
// Examples: "id" -> "ID", "hotelId" -> "hotel ID", "windowId" -> "window ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	// Split on camelCase boundary before the trailing "Id" suffix.
	if strings.HasSuffix(param, "Id") {
		prefix := param[:len(param)-2]
		words := splitCamel(prefix)
		return strings.ToLower(strings.Join(words, " ")) + " ID"
	}
	return param
}

// splitCamel splits a camelCase string into words.
func splitCamel(s string) []string {
	var words []string
	start := 0
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, s[start:i])
			start = i
		}
	}
	words = append(words, s[start:])
	return words
}

// isAdmin checks whether the given user has admin privileges.
func (s *Server) isAdmin(c *fiber.Ctx, userID uint) (bool, error) {
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

// respondServiceError maps an application error to its HTTP status and writes
// the standardized error body.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithAppError(c, err)
}

// readUploadedFiles collects every file of a multipart form field into memory.
// On malformed input it writes a 400 response and returns errResponseWritten.
func readUploadedFiles(c *fiber.Ctx, field string) ([]uploadedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Expected a multipart form upload"))
		return nil, errResponseWritten
	}

	headers := form.File[field]
	if len(headers) == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("No files provided in field "+field))
		return nil, errResponseWritten
	}

	files := make([]uploadedFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded file "+header.Filename))
			return nil, errResponseWritten
		}
		data := make([]byte, header.Size)
		if _, err := io.ReadFull(f, data); err != nil {
			f.Close()
			_ = models.RespondWithError(c, fiber.StatusBadRequest,
				models.NewValidationError("Could not read uploaded file "+header.Filename))
			return nil, errResponseWritten
		}
		f.Close()
		files = append(files, uploadedFile{
			Filename: header.Filename,
			Mime:     header.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return files, nil
}

type uploadedFile struct {
	Filename string
	Mime     string
	Data     []byte
}
