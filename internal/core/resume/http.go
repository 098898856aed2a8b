// Copyright (c) 2026 Folioworks. All rights reserved.

package resume

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folioworks/folio/internal/core/content"
	requestutil "github.com/folioworks/folio/internal/platform/request"
	"github.com/folioworks/folio/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/resume", handler.getResume)
}

func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/resume", handler.createItem)
	router.Patch("/resume/{id}", handler.updateItem)
	router.Delete("/resume/{id}", handler.deleteItem)
}

// resumeView is the grouped public payload, sections in presentation order.
type resumeView struct {
	Sections []sectionView `json:"sections"`
}

type sectionView struct {
	Section Section `json:"section"`
	Items   []*Item `json:"items"`
}

func (handler *Handler) getResume(writer http.ResponseWriter, request *http.Request) {
	grouped, err := handler.service.ListGrouped(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view := resumeView{Sections: make([]sectionView, 0, len(grouped))}
	for _, section := range Sections() {
		if items, ok := grouped[section]; ok {
			view.Sections = append(view.Sections, sectionView{Section: section, Items: items})
		}
	}

	respond.OK(writer, view)
}

func (handler *Handler) createItem(writer http.ResponseWriter, request *http.Request) {
	input := Input{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, plan, err := handler.service.Create(request.Context(), input, content.OptionsFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if plan != nil {
		respond.OKWithSummary(writer, nil, plan)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) updateItem(writer http.ResponseWriter, request *http.Request) {
	patch := Patch{}
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, plan, err := handler.service.Update(request.Context(),
		requestutil.Param(request, "id"), patch, content.OptionsFromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if plan != nil {
		respond.OKWithSummary(writer, nil, plan)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deleteItem(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
