package http

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/travel-expense/internal/domain/entity"
	"github.com/garyjia/travel-expense/internal/domain/regulation"
)

type companyRequest struct {
	Name               string `json:"name"`
	Address            string `json:"address"`
	Representative     string `json:"representative"`
	Revision           int    `json:"revision"`
	ImplementationDate string `json:"implementation_date"`
}

type regulationRequest struct {
	Company                     companyRequest            `json:"company"`
	DistanceThreshold           int                       `json:"distance_threshold"`
	IsTransportationRealExpense bool                      `json:"is_transportation_real_expense"`
	IsAccommodationRealExpense  bool                      `json:"is_accommodation_real_expense"`
	Positions                   []regulation.PositionRate `json:"positions"`
}

func (r regulationRequest) document() (regulation.Document, error) {
	date, err := parseDate("implementation_date", r.Company.ImplementationDate)
	if err != nil {
		return regulation.Document{}, err
	}
	return regulation.Document{
		Company: regulation.CompanyInfo{
			Name:               r.Company.Name,
			Address:            r.Company.Address,
			Representative:     r.Company.Representative,
			Revision:           r.Company.Revision,
			ImplementationDate: date,
		},
		DistanceThreshold:           r.DistanceThreshold,
		IsTransportationRealExpense: r.IsTransportationRealExpense,
		IsAccommodationRealExpense:  r.IsAccommodationRealExpense,
		Positions:                   r.Positions,
	}, nil
}

// TemplateResponse is the starting document with its rendered text
type TemplateResponse struct {
	Document regulation.Document `json:"document"`
	Text     string              `json:"text"`
}

// RegulationTemplate handles GET /api/v1/regulations/template
func (h *Handlers) RegulationTemplate(c *gin.Context) {
	doc := h.services.Regulation.Template()
	ok(c, http.StatusOK, TemplateResponse{
		Document: doc,
		Text:     h.services.Regulation.Preview(doc),
	})
}

// PreviewRegulation handles POST /api/v1/regulations/preview
func (h *Handlers) PreviewRegulation(c *gin.Context) {
	doc, valid := h.bindDocument(c, "preview regulation")
	if !valid {
		return
	}

	ok(c, http.StatusOK, gin.H{
		"title": regulation.Title(doc.Company.Name),
		"text":  h.services.Regulation.Preview(doc),
	})
}

// CreateRegulation handles POST /api/v1/regulations
func (h *Handlers) CreateRegulation(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	doc, valid := h.bindDocument(c, "create regulation")
	if !valid {
		return
	}

	reg, err := h.services.Regulation.Create(c.Request.Context(), user.ID, doc)
	if err != nil {
		h.respondError(c, "create regulation", err)
		return
	}

	ok(c, http.StatusCreated, reg)
}

// ListRegulations handles GET /api/v1/regulations
func (h *Handlers) ListRegulations(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	regs, err := h.services.Regulation.List(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, "list regulations", err)
		return
	}
	if regs == nil {
		regs = []*entity.Regulation{}
	}

	ok(c, http.StatusOK, regs)
}

// GetRegulation handles GET /api/v1/regulations/:id
func (h *Handlers) GetRegulation(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	reg, err := h.services.Regulation.Get(c.Request.Context(), user.ID, id)
	if err != nil {
		h.respondError(c, "get regulation", err)
		return
	}

	ok(c, http.StatusOK, reg)
}

// UpdateRegulation handles PUT /api/v1/regulations/:id
func (h *Handlers) UpdateRegulation(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}
	doc, valid := h.bindDocument(c, "update regulation")
	if !valid {
		return
	}

	reg, err := h.services.Regulation.Update(c.Request.Context(), user.ID, id, doc)
	if err != nil {
		h.respondError(c, "update regulation", err)
		return
	}

	ok(c, http.StatusOK, reg)
}

// DeleteRegulation handles DELETE /api/v1/regulations/:id
func (h *Handlers) DeleteRegulation(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	if err := h.services.Regulation.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.respondError(c, "delete regulation", err)
		return
	}

	ok(c, http.StatusOK, gin.H{"id": id})
}

// CreateExport handles POST /api/v1/regulations/:id/exports?format=
func (h *Handlers) CreateExport(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	format := c.DefaultQuery("format", entity.ExportFormatText)
	rec, err := h.services.Export.Export(c.Request.Context(), user.ID, id, format)
	if err != nil {
		h.respondError(c, "export regulation", err)
		return
	}

	ok(c, http.StatusCreated, rec)
}

// ListExports handles GET /api/v1/regulations/:id/exports
func (h *Handlers) ListExports(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}
	id, valid := parseID(c)
	if !valid {
		return
	}

	recs, err := h.services.Export.List(c.Request.Context(), user.ID, id)
	if err != nil {
		h.respondError(c, "list exports", err)
		return
	}
	if recs == nil {
		recs = []*entity.ExportRecord{}
	}

	ok(c, http.StatusOK, recs)
}

// DownloadExport handles GET /api/v1/exports/:id
func (h *Handlers) DownloadExport(c *gin.Context) {
	user := mustUser(c)
	if user == nil {
		return
	}

	rec, content, err := h.services.Export.Open(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.respondError(c, "download export", err)
		return
	}

	c.Header("Content-Disposition", contentDisposition(rec.FileName))
	c.Data(http.StatusOK, rec.ContentType, content)
}

// contentDisposition carries non-ASCII file names as RFC 5987 filename*
func contentDisposition(name string) string {
	return fmt.Sprintf("attachment; filename=\"export.%s\"; filename*=UTF-8''%s", fileExt(name), url.PathEscape(name))
}

func fileExt(name string) string {
	if ext := strings.TrimPrefix(path.Ext(name), "."); ext != "" {
		return ext
	}
	return "bin"
}

func (h *Handlers) bindDocument(c *gin.Context, op string) (regulation.Document, bool) {
	var req regulationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request body")
		return regulation.Document{}, false
	}
	doc, err := req.document()
	if err != nil {
		h.respondError(c, op, err)
		return regulation.Document{}, false
	}
	return doc, true
}
