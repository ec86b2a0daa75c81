package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"partner-catalog-service/internal/domain"
	"partner-catalog-service/internal/logger"
	"partner-catalog-service/internal/media"
)

// fieldKind tells the form decoder how to turn a text value into JSON.
type fieldKind int

const (
	textField   fieldKind = iota
	boolField             // true/1/yes/on, false/0/no/off
	intField              // ordre and foreign keys
	idListField           // repeated values or a comma-separated list; "" clears
)

// uploadField is a multipart file part and the media directory it goes to.
type uploadField struct {
	name string
	dir  string
}

// writeSpec describes the writable surface of one resource.
type writeSpec struct {
	fields   map[string]fieldKind
	required []string // must be present on create and PUT
	uploads  []uploadField
}

func (s writeSpec) isUpload(name string) bool {
	for _, u := range s.uploads {
		if u.name == name {
			return true
		}
	}
	return false
}

// writeInput is implemented by every resource's input struct.
type writeInput interface {
	normalize()
	setAsset(field, key string)
}

// requestBody is a decoded JSON, urlencoded or multipart body.
type requestBody struct {
	values map[string]json.RawMessage
	files  map[string]*multipart.FileHeader
}

func (b *requestBody) has(name string) bool {
	_, inValues := b.values[name]
	_, inFiles := b.files[name]
	return inValues || inFiles
}

// apply unmarshals the decoded values onto dst. Fields absent from the body
// keep the value dst already holds.
func (b *requestBody) apply(dst any) error {
	data, err := json.Marshal(b.values)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field, _, _ := strings.Cut(typeErr.Field, ".")
			return domain.NewValidationError(field, "Incorrect type. Expected "+typeErr.Type.String()+".")
		}
		return err
	}
	return nil
}

// decodeBody reads the request body according to its content type. Only
// fields named in ws are kept; file parts are only taken from multipart bodies.
func (h *HTTPHandler) decodeBody(w http.ResponseWriter, r *http.Request, ws writeSpec) (*requestBody, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	defer r.Body.Close()

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(h.maxUpload); err != nil {
			return nil, err
		}
		body, err := formBody(r.MultipartForm.Value, ws)
		if err != nil {
			return nil, err
		}
		for _, u := range ws.uploads {
			if fhs := r.MultipartForm.File[u.name]; len(fhs) > 0 {
				body.files[u.name] = fhs[0]
			}
		}
		return body, nil
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return formBody(r.PostForm, ws)
	default:
		body := &requestBody{values: map[string]json.RawMessage{}, files: map[string]*multipart.FileHeader{}}
		if err := json.NewDecoder(r.Body).Decode(&body.values); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if body.values == nil {
			body.values = map[string]json.RawMessage{}
		}
		for name := range body.values {
			if _, known := ws.fields[name]; !known || ws.isUpload(name) {
				delete(body.values, name)
			}
		}
		return body, nil
	}
}

// formBody converts form values to JSON using the field kinds of ws.
func formBody(form url.Values, ws writeSpec) (*requestBody, error) {
	body := &requestBody{values: map[string]json.RawMessage{}, files: map[string]*multipart.FileHeader{}}
	verr := &domain.ValidationError{}
	for name, kind := range ws.fields {
		vals, ok := form[name]
		if !ok || ws.isUpload(name) {
			continue
		}
		v, err := formValue(kind, vals)
		if err != nil {
			verr.Add(name, err.Error())
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		body.values[name] = raw
	}
	if !verr.Empty() {
		return nil, verr
	}
	return body, nil
}

func formValue(kind fieldKind, vals []string) (any, error) {
	first := ""
	if len(vals) > 0 {
		first = strings.TrimSpace(vals[0])
	}
	switch kind {
	case boolField:
		switch strings.ToLower(first) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off", "":
			return false, nil
		}
		return nil, errors.New("Must be a valid boolean.")
	case intField:
		n, err := strconv.ParseInt(first, 10, 64)
		if err != nil {
			return nil, errors.New("A valid integer is required.")
		}
		return n, nil
	case idListField:
		ids := []int64{}
		for _, v := range vals {
			for _, part := range strings.Split(v, ",") {
				part = strings.TrimSpace(part)
				if part == "" {
					continue
				}
				id, err := strconv.ParseInt(part, 10, 64)
				if err != nil {
					return nil, fmt.Errorf("Incorrect type. Expected pk value, received %q.", part)
				}
				ids = append(ids, id)
			}
		}
		return ids, nil
	default:
		return first, nil
	}
}

// upload is a validated file part waiting to be written under key.
type upload struct {
	key    string
	header *multipart.FileHeader
}

// bind decodes the request onto input, assigns media keys to uploaded files
// and validates the result. full marks create and PUT, where the required
// fields of ws must be present in the body. On failure the response has
// already been written.
func (h *HTTPHandler) bind(w http.ResponseWriter, r *http.Request, ws writeSpec, input writeInput, op string, full bool) ([]upload, bool) {
	body, err := h.decodeBody(w, r, ws)
	if err == nil {
		err = body.apply(input)
	}
	if err != nil {
		respondWithDecodeError(w, r, op, err)
		return nil, false
	}
	input.normalize()

	var ups []upload
	for _, u := range ws.uploads {
		fh := body.files[u.name]
		if fh == nil {
			continue
		}
		key := media.NewKey(u.dir, fh.Filename)
		input.setAsset(u.name, key)
		ups = append(ups, upload{key: key, header: fh})
	}

	verr := &domain.ValidationError{}
	if full {
		for _, name := range ws.required {
			if !body.has(name) {
				verr.Add(name, "This field is required.")
			}
		}
	}
	if err := h.validateStruct(input); err != nil {
		var fieldErrs *domain.ValidationError
		if !errors.As(err, &fieldErrs) {
			respondWithStoreError(w, r, op, err)
			return nil, false
		}
		for name, msgs := range fieldErrs.Fields {
			if _, seen := verr.Fields[name]; seen {
				continue
			}
			for _, msg := range msgs {
				verr.Add(name, msg)
			}
		}
	}
	if !verr.Empty() {
		respondWithStoreError(w, r, op, verr)
		return nil, false
	}
	return ups, true
}

func respondWithDecodeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var (
		verr   *domain.ValidationError
		tooBig *http.MaxBytesError
		syntax *json.SyntaxError
	)
	switch {
	case errors.As(err, &verr):
		respondWithStoreError(w, r, op, verr)
	case errors.As(err, &tooBig):
		respondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
	case errors.As(err, &syntax):
		respondWithStoreError(w, r, op, domain.NewValidationError("non_field_errors", "JSON parse error - "+err.Error()))
	default:
		respondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
	}
}

// persist writes the staged uploads, then runs write. Uploads are removed
// again when either step fails. On failure the response has been written.
func (h *HTTPHandler) persist(w http.ResponseWriter, r *http.Request, op string, ups []upload, write func() error) bool {
	ctx := r.Context()
	for i, u := range ups {
		if err := h.putUpload(ctx, u); err != nil {
			h.discardUploads(ctx, ups[:i])
			logger.WithCtx(ctx).Error("failed to store upload", "op", op, "key", u.key, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to store uploaded file")
			return false
		}
	}
	if err := write(); err != nil {
		h.discardUploads(ctx, ups)
		respondWithStoreError(w, r, op, err)
		return false
	}
	return true
}

func (h *HTTPHandler) putUpload(ctx context.Context, u upload) error {
	f, err := u.header.Open()
	if err != nil {
		return err
	}
	defer f.Close()
	return h.media.Put(ctx, u.key, f, u.header.Header.Get("Content-Type"))
}

func (h *HTTPHandler) discardUploads(ctx context.Context, ups []upload) {
	// The request context may already be cancelled; cleanup still has to run.
	ctx = context.WithoutCancel(ctx)
	for _, u := range ups {
		if err := h.media.Delete(ctx, u.key); err != nil {
			logger.WithCtx(ctx).Warn("failed to remove upload", "key", u.key, "error", err)
		}
	}
}
