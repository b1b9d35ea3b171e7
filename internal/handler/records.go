package handler

import (
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"address-reconciler/internal/models"
	"address-reconciler/internal/spreadsheet"

	"github.com/gin-gonic/gin"
)

// RecordHandler handles record import, lookup, update and export
type RecordHandler struct {
	service RecordService
}

// RecordService interface for dependency injection
type RecordService interface {
	Import(rows []models.Record, sheet string) []models.Record
	Snapshot() []models.Record
	Lookup(filter map[string]string) (models.Record, bool)
	UpdateRecord(id string, changes map[string]string) (models.Record, error)
	BindPictures(pictures map[string]string) ([]models.Record, []string)
	Clear() error
}

// NewRecordHandler creates a new record handler
func NewRecordHandler(svc RecordService) *RecordHandler {
	return &RecordHandler{service: svc}
}

// ImportRequest is the JSON body of POST /records
type ImportRequest struct {
	Sheet   string          `json:"sheet"`
	Records []models.Record `json:"records" binding:"required"`
}

// PictureBindResponse is the result of POST /pictures
type PictureBindResponse struct {
	Records   []models.Record `json:"records"`
	Unmatched []string        `json:"unmatched"`
}

// Import handles POST /records requests
//
//	@Summary	Import records
//	@Description	Merges rows into the record store. Accepts a JSON body or a multipart xlsx/csv upload in field "file".
//	@Tags		records
//	@Accept		json,mpfd
//	@Produce	json
//	@Param		body	body		ImportRequest	false	"rows to import"
//	@Success	200		{array}		models.Record	"changed records"
//	@Failure	400		{object}	ErrorResponse
//	@Router		/records [post]
func (h *RecordHandler) Import(c *gin.Context) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		h.importFile(c)
		return
	}

	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	c.JSON(http.StatusOK, h.service.Import(req.Records, req.Sheet))
}

func (h *RecordHandler) importFile(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing form file 'file'"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open upload"})
		return
	}
	defer f.Close()

	var rows []models.Record
	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".csv":
		rows, err = spreadsheet.ReadCSV(f, strings.TrimSuffix(fh.Filename, filepath.Ext(fh.Filename)))
	case ".xlsx", ".xlsm":
		rows, err = spreadsheet.ReadXLSX(f)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": spreadsheet.ErrUnsupportedFormat.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.Import(rows, c.PostForm("sheet")))
}

// List handles GET /records requests
//
//	@Summary	List records
//	@Tags		records
//	@Produce	json
//	@Success	200	{array}	models.Record
//	@Router		/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	records := h.service.Snapshot()
	if records == nil {
		records = []models.Record{}
	}
	c.JSON(http.StatusOK, records)
}

// Lookup handles GET /records/lookup requests. Every query parameter is a
// field filter.
//
//	@Summary	Find the first record matching all query parameters
//	@Tags		records
//	@Produce	json
//	@Success	200	{object}	models.Record
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/records/lookup [get]
func (h *RecordHandler) Lookup(c *gin.Context) {
	filter := map[string]string{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			filter[k] = v[0]
		}
	}
	if len(filter) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one filter parameter is required"})
		return
	}

	r, ok := h.service.Lookup(filter)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no record matches the filter"})
		return
	}
	c.JSON(http.StatusOK, r)
}

// Update handles PATCH /records/:id requests
//
//	@Summary	Update fields of one record
//	@Description	An empty value removes the field. The id cannot be changed.
//	@Tags		records
//	@Accept		json
//	@Produce	json
//	@Param		id		path		string				true	"record id"
//	@Param		changes	body		map[string]string	true	"field changes"
//	@Success	200		{object}	models.Record
//	@Failure	400		{object}	ErrorResponse
//	@Failure	404		{object}	ErrorResponse
//	@Router		/records/{id} [patch]
func (h *RecordHandler) Update(c *gin.Context) {
	var changes map[string]string
	if err := c.ShouldBindJSON(&changes); err != nil || len(changes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	r, err := h.service.UpdateRecord(c.Param("id"), changes)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Export handles GET /records/export requests
//
//	@Summary	Download every record as xlsx
//	@Tags		records
//	@Produce	application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
//	@Success	200
//	@Router		/records/export [get]
func (h *RecordHandler) Export(c *gin.Context) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="records.xlsx"`)
	c.Status(http.StatusOK)
	if err := spreadsheet.WriteXLSX(c.Writer, h.service.Snapshot()); err != nil {
		_ = c.Error(err)
	}
}

// Clear handles DELETE /records requests
//
//	@Summary	Clear the session
//	@Tags		records
//	@Success	204
//	@Failure	500	{object}	ErrorResponse
//	@Router		/records [delete]
func (h *RecordHandler) Clear(c *gin.Context) {
	if err := h.service.Clear(); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// BindPictures handles POST /pictures requests. Every uploaded file in
// field "pictures" is named after the address it shows.
//
//	@Summary	Attach pictures to records by file name
//	@Tags		records
//	@Accept		mpfd
//	@Produce	json
//	@Success	200	{object}	PictureBindResponse
//	@Failure	400	{object}	ErrorResponse
//	@Router		/pictures [post]
func (h *RecordHandler) BindPictures(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil || len(form.File["pictures"]) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing form files 'pictures'"})
		return
	}

	pictures := make(map[string]string, len(form.File["pictures"]))
	for _, fh := range form.File["pictures"] {
		blob, err := dataURL(fh)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pictures[fh.Filename] = blob
	}

	bound, unmatched := h.service.BindPictures(pictures)
	if bound == nil {
		bound = []models.Record{}
	}
	if unmatched == nil {
		unmatched = []string{}
	}
	c.JSON(http.StatusOK, PictureBindResponse{Records: bound, Unmatched: unmatched})
}

func dataURL(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("cannot open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("cannot read %s: %w", fh.Filename, err)
	}
	mime := fh.Header.Get("Content-Type")
	if mime == "" {
		mime = http.DetectContentType(data)
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
