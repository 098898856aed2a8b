// Copyright (c) 2026 Folioworks. All rights reserved.

package project

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/folioworks/folio/internal/core/content"
	requestutil "github.com/folioworks/folio/internal/platform/request"
	"github.com/folioworks/folio/internal/platform/respond"
	"github.com/folioworks/folio/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the published-only read endpoints.
func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/projects", handler.listProjects)
	router.Get("/projects/{slug}", handler.getProject)
}

// RegisterAdminRoutes mounts the token-gated write endpoints.
func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/projects", handler.createProject)
	router.Patch("/projects/{slug}", handler.updateProject)
	router.Delete("/projects/{slug}", handler.deleteProject)
}

func (handler *Handler) listProjects(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	projects, meta, err := handler.service.ListPublished(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, projects, meta)
}

func (handler *Handler) getProject(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.service.GetPublished(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

func (handler *Handler) createProject(writer http.ResponseWriter, request *http.Request) {
	input := Input{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	opts := content.OptionsFromRequest(request)

	created, plan, err := handler.service.Create(request.Context(), input, opts)
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

func (handler *Handler) updateProject(writer http.ResponseWriter, request *http.Request) {
	patch := Patch{}
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	opts := content.OptionsFromRequest(request)

	updated, plan, err := handler.service.Update(request.Context(), requestutil.Param(request, "slug"), patch, opts)
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

func (handler *Handler) deleteProject(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
