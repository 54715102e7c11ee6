package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	apperrors "github.com/aslectra/backend/internal/errors"
	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/services"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/validators"
	"github.com/aslectra/backend/internal/views"
)

// ActualityHandler serves the feed and the actuality actions
type ActualityHandler struct {
	Base
	feed        services.FeedService
	actualities services.ActualityService
	categories  repositories.CategoryRepository
}

func NewActualityHandler(base Base, feed services.FeedService, actualities services.ActualityService, categories repositories.CategoryRepository) *ActualityHandler {
	return &ActualityHandler{
		Base:        base,
		feed:        feed,
		actualities: actualities,
		categories:  categories,
	}
}

// RegisterActualityRoutes registers the feed and actuality routes on the
// authenticated group
func (h *ActualityHandler) RegisterActualityRoutes(g *echo.Group, admin echo.MiddlewareFunc) {
	g.GET("/", h.Index)
	g.GET("/:category_id", h.Index, middleware.NumericParams("category_id"))
	g.GET("/actuality/create", h.Create)
	g.POST("/actuality/store", h.Store)
	g.POST("/actuality/comment/:actuality_id", h.Comment, middleware.NumericParams("actuality_id"))
	g.GET("/actuality/like/:actuality_id", h.Like, middleware.NumericParams("actuality_id"))
	g.GET("/delete/:actuality_id", h.Delete, middleware.NumericParams("actuality_id"), admin)
}

// RegisterAPIRoutes registers the token-authenticated feed
func (h *ActualityHandler) RegisterAPIRoutes(g *echo.Group) {
	g.GET("/actualities", h.APIIndex)
}

func categoryParam(raw string) (*uint, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusNotFound)
	}
	categoryID := uint(id)
	return &categoryID, nil
}

// Index shows the personalized feed, or every actuality of one category.
func (h *ActualityHandler) Index(c echo.Context) error {
	categoryID, err := categoryParam(c.Param("category_id"))
	if err != nil {
		return err
	}

	user := middleware.CurrentUser(c)
	page, err := h.feed.Feed(c.Request().Context(), user.ID, categoryID, pageParam(c))
	if err != nil {
		return err
	}

	return h.render(c, http.StatusOK, "feed", &views.Page{
		Title:   "Actualités",
		Section: "feed",
		Data:    map[string]any{"Feed": page},
	})
}

// APIIndex returns the same feed as JSON.
func (h *ActualityHandler) APIIndex(c echo.Context) error {
	categoryID, err := categoryParam(c.QueryParam("category_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid category_id")
	}

	user := middleware.CurrentUser(c)
	page, err := h.feed.Feed(c.Request().Context(), user.ID, categoryID, pageParam(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, page)
}

func (h *ActualityHandler) Create(c echo.Context) error {
	categories, err := h.categories.GetCategories(c.Request().Context())
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return h.redirectWith(c, "/", session.FlashError, "Il n'y a pas encore de catégorie")
	}
	return h.renderCreate(c, http.StatusOK, categories, nil)
}

func (h *ActualityHandler) renderCreate(c echo.Context, status int, categories []models.Category, errs map[string]string) error {
	return h.render(c, status, "actuality_create", &views.Page{
		Title:   "Ecrire une actualité",
		Section: "actuality.create",
		Errors:  errs,
		Form:    formValues(c, "category_id", "message"),
		Data:    map[string]any{"Categories": categories},
	})
}

// Store validates the form, then creates the actuality with its image in a
// single write.
func (h *ActualityHandler) Store(c echo.Context) error {
	ctx := c.Request().Context()
	errs := map[string]string{}

	var req models.CreateActualityRequest
	bindErr := c.Bind(&req)
	if bindErr != nil {
		// keep validating the message when category_id is malformed
		req = models.CreateActualityRequest{Message: c.FormValue("message")}
	}
	if err := c.Validate(&req); err != nil {
		mergeErrors(errs, err)
	}
	if bindErr != nil {
		errs["category_id"] = validators.ExistsMessage("category_id")
	}

	var category *models.Category
	if _, failed := errs["category_id"]; !failed {
		var err error
		category, err = h.categories.GetCategoryByID(ctx, req.CategoryID)
		if apperrors.IsNotFound(err) {
			errs["category_id"] = validators.ExistsMessage("category_id")
		} else if err != nil {
			return err
		}
	}

	image, err := uploadedImage(c, errs)
	if err != nil {
		return err
	}

	if len(errs) > 0 {
		categories, err := h.categories.GetCategories(ctx)
		if err != nil {
			return err
		}
		return h.renderCreate(c, http.StatusUnprocessableEntity, categories, errs)
	}

	upload, closeFn, err := image.open()
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := h.actualities.Create(ctx, middleware.CurrentUser(c), category, req.Message, upload); err != nil {
		return err
	}
	return h.redirectWith(c, "/", session.FlashSuccess, "Actualité créée")
}

// Comment replies to an actuality and sends the user back to it.
func (h *ActualityHandler) Comment(c echo.Context) error {
	parentID, err := paramID(c, "actuality_id")
	if err != nil {
		return err
	}

	errs := map[string]string{}
	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Requête invalide")
	}
	if err := c.Validate(&req); err != nil {
		mergeErrors(errs, err)
	}

	image, err := uploadedImage(c, errs)
	if err != nil {
		return err
	}

	anchor := fmt.Sprintf("/#%d", parentID)
	if len(errs) > 0 {
		for _, field := range []string{"content", "image"} {
			if msg, ok := errs[field]; ok {
				h.flash(c, session.FlashError, msg)
			}
		}
		return c.Redirect(http.StatusSeeOther, anchor)
	}

	upload, closeFn, err := image.open()
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := h.actualities.Comment(c.Request().Context(), middleware.CurrentUser(c), parentID, req.Content, upload); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, anchor)
}

// Like records the current user's like once.
func (h *ActualityHandler) Like(c echo.Context) error {
	id, err := paramID(c, "actuality_id")
	if err != nil {
		return err
	}

	created, err := h.actualities.Like(c.Request().Context(), middleware.CurrentUser(c).ID, id)
	if err != nil {
		return err
	}
	if !created {
		return h.redirectWith(c, back(c, "/"), session.FlashError, "Vous aimez déjà l'actualité")
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/#%d", id))
}

// Delete removes an actuality. Only reachable by admins.
func (h *ActualityHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "actuality_id")
	if err != nil {
		return err
	}

	if err := h.actualities.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return h.redirectWith(c, back(c, "/"), session.FlashSuccess, "Actualité supprimée")
}

func mergeErrors(errs map[string]string, err error) {
	for field, msg := range validators.FieldErrors(err) {
		errs[field] = msg
	}
}

type imageUpload struct {
	header      *multipart.FileHeader
	contentType string
}

// uploadedImage returns the optional "image" upload, recording a field error
// when its content is not an image.
func uploadedImage(c echo.Context, errs map[string]string) (*imageUpload, error) {
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if fh.Size == 0 && fh.Filename == "" {
		return nil, nil
	}
	contentType, err := validators.ValidateImage(fh)
	if errors.Is(err, apperrors.ErrInvalidImage) {
		errs["image"] = validators.ImageMessage("image")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &imageUpload{header: fh, contentType: contentType}, nil
}

// open returns the upload for the service, or nil without an image.
func (i *imageUpload) open() (*services.Upload, func(), error) {
	if i == nil {
		return nil, func() {}, nil
	}
	f, err := i.header.Open()
	if err != nil {
		return nil, nil, err
	}
	return &services.Upload{Reader: f, ContentType: i.contentType}, func() { f.Close() }, nil
}
