package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-cinema-booking/backend"
	"github.com/jrsteele09/go-cinema-booking/internal/validation"
	"github.com/jrsteele09/go-cinema-booking/session"
	"github.com/rs/zerolog/log"
)

type Option struct {
	Value string
	Label string
}

// lookupFunc loads the choices of a field that references another entity
type lookupFunc func(ctx context.Context, api *backend.Client) ([]Option, error)

type formField struct {
	Name     string // form and JSON key, dotted for nested objects
	Path     string // JSON path shown in lists and forms, defaults to Name
	Label    string
	Type     string // text, email, url, number, decimal, date, time or select
	Required bool
	Options  []Option
	Lookup   lookupFunc
}

func (f formField) path() string {
	if f.Path != "" {
		return f.Path
	}
	return f.Name
}

// entity describes the admin pages of one backend resource. Everything that
// differs between entities is data here, the handlers below are shared.
type entity[T any] struct {
	Name        string
	Plural      string
	IDKey       string
	IDParam     string
	ListRoute   string
	DetailRoute string
	CreateRoute string // empty when the entity cannot be created here
	PageSize    int    // lists a page at a time when set
	Columns     []formField
	Fields      []formField
	Resource    func(*backend.Client) backend.Resource[T]
	// Resolve completes an item read from a form before it is sent
	Resolve func(ctx context.Context, api *backend.Client, item *T) error
}

type EntityMeta struct {
	Name        string
	Plural      string
	ListRoute   string
	CreateRoute string
	InlineForm  bool
}

type FieldView struct {
	Name     string
	Label    string
	Type     string
	Required bool
	Value    string
	Options  []Option
	Error    string
}

type EntityRow struct {
	ID    string
	Href  string
	Cells []string
}

type Paging struct {
	Page       int
	TotalPages int
	Total      int64
	PrevHref   string
	NextHref   string
}

type EntityListPage struct {
	Entity  EntityMeta
	Headers []string
	Rows    []EntityRow
	Paging  *Paging
	Form    []FieldView
}

type EntityFormPage struct {
	Entity EntityMeta
	Action string
	Fields []FieldView
}

type EntityDetailPage struct {
	Entity       EntityMeta
	ID           int64
	Action       string
	DeleteAction string
	Fields       []FieldView
}

func registerEntity[T any](s *Server, e entity[T]) {
	t := session.TreeAdmin
	s.RegisterTreeRoute(t, "GET "+e.ListRoute, entityListHandler(s, e))
	if e.CreateRoute != "" {
		if e.CreateRoute != e.ListRoute {
			s.RegisterTreeRoute(t, "GET "+e.CreateRoute, entityCreateFormHandler(s, e))
		}
		s.RegisterTreeRoute(t, "POST "+e.CreateRoute, entityCreateHandler(s, e))
	}
	s.RegisterTreeRoute(t, "GET "+e.DetailRoute, entityDetailHandler(s, e))
	s.RegisterTreeRoute(t, "POST "+e.DetailRoute, entityUpdateHandler(s, e))
	s.RegisterTreeRoute(t, "POST "+e.DetailRoute+"/delete", entityDeleteHandler(s, e))
}

func (e entity[T]) meta() EntityMeta {
	return EntityMeta{
		Name:        e.Name,
		Plural:      e.Plural,
		ListRoute:   e.ListRoute,
		CreateRoute: e.CreateRoute,
		InlineForm:  e.CreateRoute != "" && e.CreateRoute == e.ListRoute,
	}
}

func (e entity[T]) detailPath(id string) string {
	return strings.Replace(e.DetailRoute, "{"+e.IDParam+"}", id, 1)
}

func (e entity[T]) loadFailed() string {
	return fmt.Sprintf("Failed to load %s. Please try again later.", strings.ToLower(e.Plural))
}

func entityListHandler[T any](s *Server, e entity[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := entityList(r, s, e)
		if page.Entity.InlineForm {
			page.Form = fieldViews(r.Context(), s.api, e.Fields, nil, nil)
		}
		if err != nil {
			log.Err(err).Str("entity", e.Name).Msg("Failed to list entities")
			data := s.pageData(r, e.Plural, page)
			data.Error = e.loadFailed()
			s.render(w, http.StatusBadGateway, "entity_list", data)
			return
		}
		s.renderPage(w, r, "entity_list", e.Plural, page)
	}
}

func entityList[T any](r *http.Request, s *Server, e entity[T]) (EntityListPage, error) {
	page := EntityListPage{Entity: e.meta()}
	for _, c := range e.Columns {
		page.Headers = append(page.Headers, c.Label)
	}

	var items []T
	if e.PageSize > 0 {
		n, _ := strconv.Atoi(r.URL.Query().Get("page"))
		if n < 0 {
			n = 0
		}
		p, err := e.Resource(s.api).ListPage(r.Context(), n, e.PageSize)
		if err != nil {
			return page, err
		}
		items = p.Content
		page.Paging = paging(e.ListRoute, n, e.PageSize, p.TotalElements)
	} else {
		var err error
		if items, err = e.Resource(s.api).List(r.Context()); err != nil {
			return page, err
		}
	}

	for _, item := range items {
		doc, err := toDocument(item)
		if err != nil {
			return page, err
		}
		id := lookupPath(doc, e.IDKey)
		row := EntityRow{ID: id, Href: e.detailPath(id)}
		for _, c := range e.Columns {
			row.Cells = append(row.Cells, lookupPath(doc, c.path()))
		}
		page.Rows = append(page.Rows, row)
	}
	return page, nil
}

func paging(route string, n, size int, total int64) *Paging {
	pages := int((total + int64(size) - 1) / int64(size))
	p := &Paging{Page: n, TotalPages: pages, Total: total}
	if n > 0 {
		p.PrevHref = fmt.Sprintf("%s?page=%d", route, n-1)
	}
	if n+1 < pages {
		p.NextHref = fmt.Sprintf("%s?page=%d", route, n+1)
	}
	return p
}

func entityCreateFormHandler[T any](s *Server, e entity[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := EntityFormPage{
			Entity: e.meta(),
			Action: e.CreateRoute,
			Fields: fieldViews(r.Context(), s.api, e.Fields, nil, nil),
		}
		s.renderPage(w, r, "entity_form", "Add "+e.Name, page)
	}
}

func entityCreateHandler[T any](s *Server, e entity[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, errs := readEntity(r, s, e, 0)
		if errs == nil {
			if _, err := e.Resource(s.api).Create(r.Context(), item); err != nil {
				log.Err(err).Str("entity", e.Name).Msg("Failed to create entity")
				renderCreateForm(w, r, s, e, http.StatusBadGateway, nil, fmt.Sprintf("Failed to create %s. Please try again later.", strings.ToLower(e.Name)))
				return
			}
			redirectWithFlash(w, r, e.ListRoute, e.Name+" created.")
			return
		}
		renderCreateForm(w, r, s, e, http.StatusUnprocessableEntity, errs, msgFillAllFields)
	}
}

// renderCreateForm shows the posted values again with errs next to their inputs
func renderCreateForm[T any](w http.ResponseWriter, r *http.Request, s *Server, e entity[T], status int, errs validation.FieldErrors, msg string) {
	fields := fieldViews(r.Context(), s.api, e.Fields, postedValue(r), errs)

	var data PageData
	page := "entity_form"
	if e.meta().InlineForm {
		list, err := entityList(r, s, e)
		if err != nil {
			log.Err(err).Str("entity", e.Name).Msg("Failed to list entities")
		}
		list.Form = fields
		data = s.pageData(r, e.Plural, list)
		page = "entity_list"
	} else {
		data = s.pageData(r, "Add "+e.Name, EntityFormPage{Entity: e.meta(), Action: e.CreateRoute, Fields: fields})
	}
	data.Error = msg
	data.FieldErrors = errs
	s.render(w, status, page, data)
}

func entityDetailHandler[T any](s *Server, e entity[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, e.IDParam)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}

		item, err := e.Resource(s.api).Get(r.Context(), id)
		if err != nil {
			log.Err(err).Str("entity", e.Name).Int64("id", id).Msg("Failed to load entity")
			s.renderError(w, r, http.StatusNotFound, fmt.Sprintf("Failed to load %s details. Please try again later.", strings.ToLower(e.Name)))
			return
		}
		doc, err := toDocument(item)
		if err != nil {
			log.Err(err).Str("entity", e.Name).Msg("Failed to read entity")
			s.renderError(w, r, http.StatusInternalServerError, e.loadFailed())
			return
		}

		fields := fieldViews(r.Context(), s.api, e.Fields, func(f formField) string { return lookupPath(doc, f.path()) }, nil)
		s.renderPage(w, r, "entity_detail", e.Name+" Details", detailPage(e, id, fields))
	}
}

func detailPage[T any](e entity[T], id int64, fields []FieldView) EntityDetailPage {
	path := e.detailPath(strconv.FormatInt(id, 10))
	return EntityDetailPage{
		Entity:       e.meta(),
		ID:           id,
		Action:       path,
		DeleteAction: path + "/delete",
		Fields:       fields,
	}
}

func entityUpdateHandler[T any](s *Server, e entity[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, e.IDParam)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}

		item, errs := readEntity(r, s, e, id)
		status, msg := http.StatusUnprocessableEntity, msgFillAllFields
		if errs == nil {
			_, err := e.Resource(s.api).Update(r.Context(), id, item)
			if err == nil {
				redirectWithFlash(w, r, e.detailPath(strconv.FormatInt(id, 10)), e.Name+" updated.")
				return
			}
			log.Err(err).Str("entity", e.Name).Int64("id", id).Msg("Failed to update entity")
			status, msg = http.StatusBadGateway, fmt.Sprintf("Failed to update %s. Please try again later.", strings.ToLower(e.Name))
		}

		fields := fieldViews(r.Context(), s.api, e.Fields, postedValue(r), errs)
		data := s.pageData(r, e.Name+" Details", detailPage(e, id, fields))
		data.Error = msg
		data.FieldErrors = errs
		s.render(w, status, "entity_detail", data)
	}
}

func entityDeleteHandler[T any](s *Server, e entity[T]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(r, e.IDParam)
		if !ok {
			s.NotFoundHandler()(w, r)
			return
		}
		if err := e.Resource(s.api).Delete(r.Context(), id); err != nil {
			log.Err(err).Str("entity", e.Name).Int64("id", id).Msg("Failed to delete entity")
			redirectWithError(w, r, e.detailPath(strconv.FormatInt(id, 10)), fmt.Sprintf("Failed to delete %s. Please try again later.", strings.ToLower(e.Name)))
			return
		}
		redirectWithFlash(w, r, e.ListRoute, e.Name+" deleted.")
	}
}

// readEntity builds an item from the posted form and validates it. id is
// zero for a new item.
func readEntity[T any](r *http.Request, s *Server, e entity[T], id int64) (T, validation.FieldErrors) {
	var item T
	if err := r.ParseForm(); err != nil {
		return item, validation.FieldErrors{"": "invalid form data"}
	}

	doc := map[string]any{}
	var errs validation.FieldErrors
	for _, f := range e.Fields {
		raw := strings.TrimSpace(r.PostFormValue(f.Name))
		if raw == "" {
			if f.Required {
				errs = errs.Merge(validation.FieldErrors{f.Name: "is required"})
			}
			continue
		}
		v, err := formValue(f, raw)
		if err != nil {
			errs = errs.Merge(validation.FieldErrors{f.Name: err.Error()})
			continue
		}
		setPath(doc, f.Name, v)
	}
	if id > 0 {
		setPath(doc, e.IDKey, id)
	}

	if err := fromDocument(doc, &item); err != nil {
		return item, errs.Merge(validation.FieldErrors{"": err.Error()})
	}
	if errs = errs.Merge(validation.Struct(s.validate, item)); errs != nil {
		return item, errs
	}

	if e.Resolve != nil {
		if err := e.Resolve(r.Context(), s.api, &item); err != nil {
			log.Err(err).Str("entity", e.Name).Msg("Failed to resolve references")
			return item, validation.FieldErrors{"": "referenced records could not be loaded"}
		}
	}
	return item, nil
}

func formValue(f formField, raw string) (any, error) {
	switch f.Type {
	case "number", "select":
		if f.Type == "select" && f.Lookup == nil {
			return raw, nil
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a whole number")
		}
		return n, nil
	case "decimal":
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("must be a number")
		}
		return n, nil
	case "time":
		// time inputs post HH:mm, the backend expects HH:mm:ss
		if len(raw) == len("15:04") {
			raw += ":00"
		}
		return raw, nil
	}
	return raw, nil
}

func fieldViews(ctx context.Context, api *backend.Client, fields []formField, value func(formField) string, errs validation.FieldErrors) []FieldView {
	views := make([]FieldView, 0, len(fields))
	for _, f := range fields {
		v := FieldView{
			Name:     f.Name,
			Label:    f.Label,
			Type:     f.Type,
			Required: f.Required,
			Options:  f.Options,
			Error:    errs[f.Name],
		}
		if value != nil {
			v.Value = value(f)
		}
		if f.Lookup != nil {
			opts, err := f.Lookup(ctx, api)
			if err != nil {
				log.Warn().Err(err).Str("field", f.Name).Msg("Failed to load field options")
				v.Type = "number"
			}
			v.Options = opts
		}
		views = append(views, v)
	}
	return views
}

func postedValue(r *http.Request) func(formField) string {
	return func(f formField) string {
		return r.PostFormValue(f.Name)
	}
}

// toDocument turns an item into its JSON object form, keeping numbers exact.
func toDocument(item any) (map[string]any, error) {
	data, err := json.Marshal(item)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument(doc map[string]any, out any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func lookupPath(doc map[string]any, path string) string {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = m[key]
	}
	switch v := cur.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func setPath(doc map[string]any, path string, value any) {
	keys := strings.Split(path, ".")
	cur := doc
	for _, key := range keys[:len(keys)-1] {
		next, ok := cur[key].(map[string]any)
		if !ok {
			next = map[string]any{}
			cur[key] = next
		}
		cur = next
	}
	cur[keys[len(keys)-1]] = value
}
