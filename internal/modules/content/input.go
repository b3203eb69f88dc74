package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/folio-space/core/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

const multipartMemory = 8 << 20

// Input is a submitted create or update form. Only fields present in the
// request are set in Fields.
type Input struct {
	Fields map[string]string
	File   *multipart.FileHeader
}

// String returns the raw value of key and whether it was submitted.
func (in Input) String(key string) (string, bool) {
	v, ok := in.Fields[key]
	return v, ok
}

// Trimmed is String with surrounding whitespace removed.
func (in Input) Trimmed(key string) (string, bool) {
	v, ok := in.Fields[key]
	return strings.TrimSpace(v), ok
}

// Bool parses key as a form boolean (true/false/1/0/on/off/yes/no).
func (in Input) Bool(key string) (value, ok bool, err error) {
	raw, present := in.Trimmed(key)
	if !present || raw == "" {
		return false, false, nil
	}
	switch strings.ToLower(raw) {
	case "true", "1", "on", "yes":
		return true, true, nil
	case "false", "0", "off", "no":
		return false, true, nil
	}
	return false, false, apperr.Validation(fmt.Sprintf("Invalid value for %s", key))
}

// Int parses key as an integer.
func (in Input) Int(key string) (value int, ok bool, err error) {
	raw, present := in.Trimmed(key)
	if !present || raw == "" {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, apperr.Validation(fmt.Sprintf("%s must be a number", key))
	}
	return n, true, nil
}

// ParseInput reads a multipart, urlencoded or JSON body. fileField names the
// multipart part holding the upload.
func ParseInput(c *gin.Context, fileField string) (Input, error) {
	in := Input{Fields: map[string]string{}}
	switch c.ContentType() {
	case binding.MIMEJSON:
		if err := readJSON(c.Request.Body, in.Fields); err != nil {
			return in, err
		}
	case binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return in, apperr.Validation("Request body too large")
			}
			return in, apperr.Validation("Invalid multipart body")
		}
		form := c.Request.MultipartForm
		for k, vs := range form.Value {
			if len(vs) > 0 {
				in.Fields[k] = vs[0]
			}
		}
		if files := form.File[fileField]; len(files) > 0 {
			in.File = files[0]
		}
	default:
		if err := c.Request.ParseForm(); err != nil {
			return in, apperr.Validation("Invalid request body")
		}
		for k, vs := range c.Request.PostForm {
			if len(vs) > 0 {
				in.Fields[k] = vs[0]
			}
		}
	}
	return in, nil
}

func readJSON(r io.Reader, into map[string]string) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return apperr.Validation("Invalid request body")
	}
	for k, v := range raw {
		switch v := v.(type) {
		case nil:
			into[k] = ""
		case string:
			into[k] = v
		case bool:
			into[k] = strconv.FormatBool(v)
		case json.Number:
			into[k] = v.String()
		default:
			return apperr.Validation(fmt.Sprintf("Invalid value for %s", k))
		}
	}
	return nil
}
