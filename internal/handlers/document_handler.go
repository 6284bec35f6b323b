package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"orderflow-backend/internal/services"
)

type DocumentHandler struct {
	Documents *services.DocumentService
	Exports   *services.ExportService
}

func NewDocumentHandler(documents *services.DocumentService, exports *services.ExportService) *DocumentHandler {
	return &DocumentHandler{Documents: documents, Exports: exports}
}

func (h *DocumentHandler) InvoicePDF(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	pdf, err := h.Documents.GenerateInvoicePDF(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	servePDF(w, fmt.Sprintf("invoice_%d.pdf", id), pdf)
}

func (h *DocumentHandler) ShipToPDF(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	pdf, err := h.Documents.GenerateShipToPDF(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	servePDF(w, fmt.Sprintf("shipto_%d.pdf", id), pdf)
}

func (h *DocumentHandler) DeliverySheetPDF(w http.ResponseWriter, r *http.Request) {
	idStr := mux.Vars(r)["id"]
	id, _ := strconv.Atoi(idStr)

	pdf, err := h.Documents.GenerateDeliverySheetPDF(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	servePDF(w, fmt.Sprintf("delivery_%d.pdf", id), pdf)
}

// BulkInvoiceZip renders invoices for every order matching the filter and
// streams them back as a single zip archive.
func (h *DocumentHandler) BulkInvoiceZip(w http.ResponseWriter, r *http.Request) {
	filter := orderFilterFromQuery(r)

	pdfs, err := h.Documents.GenerateBulkInvoicePDFs(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	archive, err := h.Documents.CreateBulkPDFZip(pdfs)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="invoices.zip"`)
	w.Write(archive)
}

func (h *DocumentHandler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	filter := orderFilterFromQuery(r)

	data, err := h.Exports.ExportOrders(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	serveXLSX(w, "orders.xlsx", data)
}

func (h *DocumentHandler) ExportProducts(w http.ResponseWriter, r *http.Request) {
	data, err := h.Exports.ExportProducts(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	serveXLSX(w, "products.xlsx", data)
}

func servePDF(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename=%q`, filename))
	w.Write(data)
}

func serveXLSX(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	w.Write(data)
}
