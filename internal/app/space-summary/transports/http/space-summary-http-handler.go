package space_summary_http_handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/init-pkg/space-summary/domain/app"
	"github.com/init-pkg/space-summary/domain/dtos"
	"github.com/invopop/jsonschema"
)

type SpaceSummaryHttpHandler struct {
	service app.SpaceSummaryService
	limiter *UploadLimiter
	log     *slog.Logger
}

func New(service app.SpaceSummaryService, limiter *UploadLimiter, log *slog.Logger) *SpaceSummaryHttpHandler {
	return &SpaceSummaryHttpHandler{service, limiter, log}
}

func (this *SpaceSummaryHttpHandler) Register(mainApp *fiber.App) {
	mainApp.Post("/upload", this.limited(this.upload))

	var app = mainApp.Group("/spaces")

	app.Post("/upload", this.limited(this.upload))
	app.Get("/summary", this.summary)
	app.Get("/schema", this.schema)
}

func (this *SpaceSummaryHttpHandler) limited(next fiber.Handler) fiber.Handler {
	return func(fctx fiber.Ctx) error {
		if !this.limiter.Allow(fctx.IP()) {
			return fctx.Status(fiber.StatusTooManyRequests).JSON(dtos.ErrorResponse{
				Detail: "too many uploads, try again later",
			})
		}
		return next(fctx)
	}
}

// upload godoc
//
//	@Summary		Upload a room spreadsheet
//	@Description	Detects the header row, the area and usage columns and replaces the stored summary.
//	@Tags			spaces
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			file	formData	file	true	"xlsx or csv file"
//	@Success		200		{object}	dtos.UploadResponse
//	@Failure		400		{object}	dtos.ErrorResponse
//	@Failure		422		{object}	dtos.ErrorResponse
//	@Failure		429		{object}	dtos.ErrorResponse
//	@Router			/upload [post]
//	@Router			/spaces/upload [post]
func (this *SpaceSummaryHttpHandler) upload(fctx fiber.Ctx) error {
	fh, err := fctx.FormFile("file")
	if err != nil {
		return this.fail(fctx, app.ErrNoFile)
	}

	f, err := fh.Open()
	if err != nil {
		return this.fail(fctx, fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	file, err := io.ReadAll(f)
	if err != nil {
		return this.fail(fctx, fmt.Errorf("read upload: %w", err))
	}

	res, err := this.service.Upload(fctx.Context(), fh.Filename, file)
	if err != nil {
		return this.fail(fctx, err)
	}

	return fctx.JSON(dtos.UploadResponse{
		Message:      "File processed successfully",
		UploadResult: res,
	})
}

// summary godoc
//
//	@Summary	Current space summary
//	@Tags		spaces
//	@Produce	json
//	@Success	200	{array}	app.SummaryRecord
//	@Router		/spaces/summary [get]
func (this *SpaceSummaryHttpHandler) summary(fctx fiber.Ctx) error {
	return fctx.JSON(this.service.Summary(fctx.Context()))
}

// schema godoc
//
//	@Summary	JSON Schemas of the upload and summary payloads
//	@Tags		spaces
//	@Produce	json
//	@Success	200	{object}	map[string]any
//	@Router		/spaces/schema [get]
func (this *SpaceSummaryHttpHandler) schema(fctx fiber.Ctx) error {
	return fctx.JSON(fiber.Map{
		"upload":  generateSchema[dtos.UploadResponse](),
		"summary": generateSchema[[]app.SummaryRecord](),
		"error":   generateSchema[dtos.ErrorResponse](),
	})
}

func generateSchema[T any]() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

func (this *SpaceSummaryHttpHandler) fail(fctx fiber.Ctx, err error) error {
	status, detail := classify(err)
	if status >= fiber.StatusInternalServerError {
		this.log.Error("space upload failed", "error", err)
	}
	return fctx.Status(status).JSON(dtos.ErrorResponse{Detail: detail})
}

func classify(err error) (int, any) {
	var cnd *app.ColumnsNotDetectedError
	switch {
	case errors.As(err, &cnd):
		missing := make([]string, len(cnd.Missing))
		for i, r := range cnd.Missing {
			missing[i] = string(r)
		}
		available := cnd.Available
		if available == nil {
			available = []string{}
		}
		return fiber.StatusBadRequest, dtos.ColumnsNotDetectedDetail{
			Error:            cnd.Error(),
			MissingRoles:     missing,
			AvailableColumns: available,
		}
	case errors.Is(err, app.ErrNoFile),
		errors.Is(err, app.ErrDecode),
		errors.Is(err, app.ErrEmptyInput):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, app.ErrNoValidRows):
		return fiber.StatusUnprocessableEntity, err.Error()
	default:
		return fiber.StatusInternalServerError, "Error processing file: " + err.Error()
	}
}
