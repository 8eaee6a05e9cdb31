package http

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/butterflyguide/internal/core/domain"
	"github.com/samirrijal/butterflyguide/internal/core/usecases"
)

const maxDescriptionLen = 1000

var uploadExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// IdentifyResponse is returned by the identification endpoints.
// Identified is false, and the other fields absent, when the description was empty.
type IdentifyResponse struct {
	Identified     bool                   `json:"identified"`
	Identification *domain.Identification `json:"identification,omitempty"`
	Profile        *domain.SpeciesProfile `json:"profile,omitempty"`
}

type identifyRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type answerRequest struct {
	Guess string `json:"guess"`
}

func (d *Dependencies) identifyResponse(ident *domain.Identification) IdentifyResponse {
	if ident == nil {
		return IdentifyResponse{}
	}
	resp := IdentifyResponse{Identified: true, Identification: ident}
	if p, err := d.Species.Get(ident.Species); err == nil {
		resp.Profile = &p
	}
	return resp
}

// speciesParam resolves a :species path parameter given as display name or slug.
func speciesParam(c *fiber.Ctx) (domain.SpeciesID, error) {
	raw := c.Params("species")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	return domain.ParseSpecies(raw)
}

// IdentifyHandler classifies a text or voice description and records the result.
func IdentifyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req identifyRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(req.Text) > maxDescriptionLen {
			return errBadRequest(c, "text too long (max 1000 characters)")
		}
		source, err := domain.ParseInputSource(req.Source)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if source == domain.SourceUpload {
			return errBadRequest(c, "use /v1/identifications/upload for images")
		}

		ident, err := deps.Identifications.Identify(c.UserContext(), req.Text, source)
		if err != nil {
			return errFromDomain(c, err)
		}
		if ident == nil {
			return c.JSON(deps.identifyResponse(nil))
		}

		return c.Status(fiber.StatusCreated).JSON(deps.identifyResponse(ident))
	}
}

// UploadHandler identifies an uploaded picture. Only the lower-cased file name is classified;
// the image content is never inspected.
func UploadHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("image")
		if err != nil {
			return errBadRequest(c, "multipart field \"image\" is required")
		}
		name := strings.ToLower(filepath.Base(fh.Filename))
		if !uploadExtensions[filepath.Ext(name)] {
			return errBadRequest(c, "image must be a .jpg, .jpeg or .png file")
		}

		ident, err := deps.Identifications.Identify(c.UserContext(), name, domain.SourceUpload)
		if err != nil {
			return errFromDomain(c, err)
		}
		if ident == nil {
			return c.JSON(deps.identifyResponse(nil))
		}

		return c.Status(fiber.StatusCreated).JSON(deps.identifyResponse(ident))
	}
}

// PreviewIdentifyHandler classifies ?q= without recording it. Deprecated in favour of
// POST /v1/identifications.
func PreviewIdentifyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := c.Query("q")
		if len(q) > maxDescriptionLen {
			return errBadRequest(c, "q too long (max 1000 characters)")
		}
		ident := deps.Identifications.Classify(c.UserContext(), q, domain.SourceText)
		c.Set("Cache-Control", "no-store")
		return c.JSON(deps.identifyResponse(ident))
	}
}

// ListIdentificationsHandler pages through the identification history, newest first.
func ListIdentificationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := usecases.HistoryPage(c.QueryInt("offset", 0), c.QueryInt("limit", 0))

		items, total, err := deps.Identifications.History(c.UserContext(), offset, limit)
		if err != nil {
			return errFromDomain(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		c.Set("Cache-Control", "no-store")
		return c.JSON(PaginatedResponse{Data: items, Pagination: pg})
	}
}

// RecentIdentificationsHandler returns the recent-sightings gallery.
func RecentIdentificationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		items, err := deps.Identifications.Recent(c.UserContext(), c.QueryInt("limit", 0))
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(items)
	}
}

// ListSpeciesHandler returns every species card in catalog order.
func ListSpeciesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Species.List())
	}
}

// GetSpeciesHandler returns one species card.
func GetSpeciesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		species, err := speciesParam(c)
		if err != nil {
			return errFromDomain(c, err)
		}
		p, err := deps.Species.Get(species)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(p)
	}
}

// MigrationTimelineHandler returns the species' migration map data.
func MigrationTimelineHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		species, err := speciesParam(c)
		if err != nil {
			return errFromDomain(c, err)
		}
		view, err := deps.Migration.Timeline(c.UserContext(), species)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(view)
	}
}

// MigrationWaypointHandler returns the species' waypoint for a month.
func MigrationWaypointHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		species, err := speciesParam(c)
		if err != nil {
			return errFromDomain(c, err)
		}
		wv, err := deps.Migration.WaypointAt(c.UserContext(), species, c.Params("month"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(wv)
	}
}

// NewQuizHandler starts a "guess the butterfly" question.
func NewQuizHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := deps.Quiz.NewQuestion(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(q)
	}
}

// AnswerQuizHandler checks a guess and consumes the question.
func AnswerQuizHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req answerRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if strings.TrimSpace(req.Guess) == "" {
			return errBadRequest(c, "guess is required")
		}
		res, err := deps.Quiz.Answer(c.UserContext(), c.Params("id"), req.Guess)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(res)
	}
}
