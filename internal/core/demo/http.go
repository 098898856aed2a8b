package demo

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

func (handler *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/demos", handler.listDemos)
	router.Get("/demos/{slug}", handler.getDemo)
}

func (handler *Handler) RegisterAdminRoutes(router chi.Router) {
	router.Post("/demos", handler.createDemo)
	router.Patch("/demos/{slug}", handler.updateDemo)
	router.Delete("/demos/{slug}", handler.deleteDemo)
}

func (handler *Handler) listDemos(writer http.ResponseWriter, request *http.Request) {
	page := pagination.FromRequest(request)

	demos, meta, err := handler.service.ListPublished(request.Context(), page)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, demos, meta)
}

func (handler *Handler) getDemo(writer http.ResponseWriter, request *http.Request) {
	found, err := handler.service.GetPublished(request.Context(), requestutil.Param(request, "slug"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, found)
}

func (handler *Handler) createDemo(writer http.ResponseWriter, request *http.Request) {
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

func (handler *Handler) updateDemo(writer http.ResponseWriter, request *http.Request) {
	patch := Patch{}
	if err := requestutil.DecodeJSON(request, &patch); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, plan, err := handler.service.Update(request.Context(),
		requestutil.Param(request, "slug"), patch, content.OptionsFromRequest(request))
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

func (handler *Handler) deleteDemo(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.Delete(request.Context(), requestutil.Param(request, "slug")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
