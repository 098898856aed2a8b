// Copyright (c) 2026 Folioworks. All rights reserved.

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folioworks/folio/internal/platform/apperr"
	requestutil "github.com/folioworks/folio/internal/platform/request"
	"github.com/folioworks/folio/internal/platform/respond"
	"github.com/folioworks/folio/pkg/pagination"
)

// kindRoutes maps a URL segment to the catalog kind it lists.
var kindRoutes = map[string]Kind{
	"skills":  KindSkill,
	"tasks":   KindTask,
	"types":   KindType,
	"clients": KindClient,
	"studios": KindStudio,
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the read-only listing endpoints, one per kind.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	for segment, kind := range kindRoutes {
		router.Get("/"+segment, handler.listEntries(kind))
	}
}

// RegisterAdminRoutes mounts the token-gated catalog write endpoints.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/catalog/{kind}", handler.createEntry)
}

func (handler *Handler) listEntries(kind Kind) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		filter := request.URL.Query().Get("q")
		page := pagination.FromRequest(request)

		entries, meta, err := handler.service.ListEntries(request.Context(), kind, filter, page)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.Paginated(writer, entries, meta)
	}
}

func (handler *Handler) createEntry(writer http.ResponseWriter, request *http.Request) {
	kind, ok := ParseKind(requestutil.Param(request, "kind"))
	if !ok {
		respond.Error(writer, request, apperr.ValidationError("Unknown catalog kind"))
		return
	}

	input := CreateInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	entry, err := handler.service.CreateEntry(request.Context(), kind, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, entry)
}
