// Package api exposes a `filesystem.Synchronized` over HTTP.
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/weberc2/blockfs/pkg/device"
	"github.com/weberc2/blockfs/pkg/filesystem"
	. "github.com/weberc2/blockfs/pkg/types"
	pz "github.com/weberc2/httpeasy"
)

type FileSystemService struct {
	FileSystem *filesystem.Synchronized
}

func (fss *FileSystemService) Routes() []pz.Route {
	return []pz.Route{
		fss.LsRoute(),
		fss.CreateRoute(),
		fss.StatRoute(),
		fss.UnlinkRoute(),
		fss.LinkRoute(),
		fss.TruncateRoute(),
		fss.OpenRoute(),
		fss.CloseRoute(),
		fss.SeekRoute(),
		fss.ReadRoute(),
		fss.WriteRoute(),
		fss.StatfsRoute(),
	}
}

type NameRequest struct {
	Name string `json:"name"`
}

type CreateResponse struct {
	Name  string `json:"name"`
	Index Index  `json:"index"`
}

type HandleResponse struct {
	Handle Handle `json:"handle"`
	Cursor Byte   `json:"cursor"`
}

type SizeRequest struct {
	Size Byte `json:"size"`
}

type SeekRequest struct {
	Offset Byte `json:"offset"`
}

// DataResponse carries file contents; `Data` is base64-encoded on the wire.
type DataResponse struct {
	Data   []byte `json:"data"`
	Cursor Byte   `json:"cursor"`
}

type WriteRequest struct {
	Data []byte `json:"data"`
}

type WriteResponse struct {
	Written Byte `json:"written"`
	Cursor  Byte `json:"cursor"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func (fss *FileSystemService) LsRoute() pz.Route {
	return pz.Route{
		Path:   "/api/files",
		Method: "GET",
		Handler: func(r pz.Request) pz.Response {
			return pz.Ok(pz.JSON(fss.FileSystem.Entries()))
		},
	}
}

func (fss *FileSystemService) CreateRoute() pz.Route {
	return pz.Route{
		Path:   "/api/files",
		Method: "POST",
		Handler: func(r pz.Request) pz.Response {
			var req NameRequest
			if err := r.JSON(&req); err != nil {
				return badJSON(err)
			}
			index, err := fss.FileSystem.Create(req.Name)
			if err != nil {
				return handleError("creating file", err, &logging{Name: req.Name})
			}
			return pz.Created(
				pz.JSON(&CreateResponse{Name: req.Name, Index: index}),
				&logging{Message: "created file", Name: req.Name},
			)
		},
	}
}

func (fss *FileSystemService) StatRoute() pz.Route {
	return pz.Route{
		Path:   "/api/files/{name}",
		Method: "GET",
		Handler: func(r pz.Request) pz.Response {
			name := r.Vars["name"]
			stat, err := fss.FileSystem.Stat(name)
			if err != nil {
				return handleError("stat", err, &logging{Name: name})
			}
			return pz.Ok(pz.JSON(&stat))
		},
	}
}

func (fss *FileSystemService) UnlinkRoute() pz.Route {
	return pz.Route{
		Path:   "/api/files/{name}",
		Method: "DELETE",
		Handler: func(r pz.Request) pz.Response {
			name := r.Vars["name"]
			if err := fss.FileSystem.Unlink(name); err != nil {
				return handleError("unlinking file", err, &logging{Name: name})
			}
			return pz.Ok(
				pz.JSON(&MessageResponse{Message: "unlinked"}),
				&logging{Message: "unlinked file", Name: name},
			)
		},
	}
}

func (fss *FileSystemService) LinkRoute() pz.Route {
	return pz.Route{
		Path:   "/api/files/{name}/links",
		Method: "POST",
		Handler: func(r pz.Request) pz.Response {
			existing := r.Vars["name"]
			var req NameRequest
			if err := r.JSON(&req); err != nil {
				return badJSON(err)
			}
			if err := fss.FileSystem.Link(existing, req.Name); err != nil {
				return handleError(
					"linking file",
					err,
					&logging{Name: req.Name, Target: existing},
				)
			}
			return pz.Created(
				pz.JSON(&MessageResponse{Message: "linked"}),
				&logging{Message: "linked file", Name: req.Name, Target: existing},
			)
		},
	}
}

func (fss *FileSystemService) TruncateRoute() pz.Route {
	return pz.Route{
		Path:   "/api/files/{name}/size",
		Method: "PUT",
		Handler: func(r pz.Request) pz.Response {
			name := r.Vars["name"]
			var req SizeRequest
			if err := r.JSON(&req); err != nil {
				return badJSON(err)
			}
			if err := fss.FileSystem.Truncate(name, req.Size); err != nil {
				return handleError("truncating file", err, &logging{Name: name})
			}
			stat, err := fss.FileSystem.Stat(name)
			if err != nil {
				return handleError("truncating file", err, &logging{Name: name})
			}
			return pz.Ok(pz.JSON(&stat), &logging{
				Message: "truncated file",
				Name:    name,
			})
		},
	}
}

func (fss *FileSystemService) OpenRoute() pz.Route {
	return pz.Route{
		Path:   "/api/handles",
		Method: "POST",
		Handler: func(r pz.Request) pz.Response {
			var req NameRequest
			if err := r.JSON(&req); err != nil {
				return badJSON(err)
			}
			handle, err := fss.FileSystem.Open(req.Name)
			if err != nil {
				return handleError("opening file", err, &logging{Name: req.Name})
			}
			return pz.Created(
				pz.JSON(&HandleResponse{Handle: handle}),
				&logging{Message: "opened file", Name: req.Name, Handle: &handle},
			)
		},
	}
}

func (fss *FileSystemService) CloseRoute() pz.Route {
	return pz.Route{
		Path:   "/api/handles/{handle}",
		Method: "DELETE",
		Handler: func(r pz.Request) pz.Response {
			handle, rsp, ok := parseHandle(r)
			if !ok {
				return rsp
			}
			if err := fss.FileSystem.Close(handle); err != nil {
				return handleError("closing handle", err, &logging{Handle: &handle})
			}
			return pz.Ok(
				pz.JSON(&MessageResponse{Message: "closed"}),
				&logging{Message: "closed handle", Handle: &handle},
			)
		},
	}
}

func (fss *FileSystemService) SeekRoute() pz.Route {
	return pz.Route{
		Path:   "/api/handles/{handle}/cursor",
		Method: "PUT",
		Handler: func(r pz.Request) pz.Response {
			handle, rsp, ok := parseHandle(r)
			if !ok {
				return rsp
			}
			var req SeekRequest
			if err := r.JSON(&req); err != nil {
				return badJSON(err)
			}
			if err := fss.FileSystem.Seek(handle, req.Offset); err != nil {
				return handleError("seeking", err, &logging{Handle: &handle})
			}
			return pz.Ok(pz.JSON(&HandleResponse{
				Handle: handle,
				Cursor: req.Offset,
			}))
		},
	}
}

func (fss *FileSystemService) ReadRoute() pz.Route {
	return pz.Route{
		Path:   "/api/handles/{handle}/read",
		Method: "POST",
		Handler: func(r pz.Request) pz.Response {
			handle, rsp, ok := parseHandle(r)
			if !ok {
				return rsp
			}
			var req SizeRequest
			if err := r.JSON(&req); err != nil {
				return badJSON(err)
			}
			data, err := fss.FileSystem.Read(handle, req.Size)
			if err != nil {
				return handleError("reading", err, &logging{Handle: &handle})
			}
			cursor, err := fss.FileSystem.Tell(handle)
			if err != nil {
				return handleError("reading", err, &logging{Handle: &handle})
			}
			return pz.Ok(pz.JSON(&DataResponse{Data: data, Cursor: cursor}))
		},
	}
}

func (fss *FileSystemService) WriteRoute() pz.Route {
	return pz.Route{
		Path:   "/api/handles/{handle}/write",
		Method: "POST",
		Handler: func(r pz.Request) pz.Response {
			handle, rsp, ok := parseHandle(r)
			if !ok {
				return rsp
			}
			var req WriteRequest
			if err := r.JSON(&req); err != nil {
				return badJSON(err)
			}
			written, err := fss.FileSystem.Write(handle, req.Data)
			if err != nil {
				return handleError("writing", err, &logging{Handle: &handle})
			}
			cursor, err := fss.FileSystem.Tell(handle)
			if err != nil {
				return handleError("writing", err, &logging{Handle: &handle})
			}
			return pz.Ok(
				pz.JSON(&WriteResponse{Written: written, Cursor: cursor}),
				&logging{
					Message: fmt.Sprintf("wrote `%d` bytes", written),
					Handle:  &handle,
				},
			)
		},
	}
}

func (fss *FileSystemService) StatfsRoute() pz.Route {
	return pz.Route{
		Path:   "/api/statfs",
		Method: "GET",
		Handler: func(r pz.Request) pz.Response {
			stat := fss.FileSystem.Statfs()
			return pz.Ok(pz.JSON(&stat))
		},
	}
}

func parseHandle(r pz.Request) (Handle, pz.Response, bool) {
	handle, err := strconv.Atoi(r.Vars["handle"])
	if err != nil {
		return HandleNil, pz.BadRequest(
			pz.String("Malformed handle"),
			&logging{Message: "parsing handle", Error: err.Error()},
		), false
	}
	return Handle(handle), pz.Response{}, true
}

func badJSON(err error) pz.Response {
	return pz.BadRequest(
		pz.String("Malformed JSON"),
		&logging{Message: "parsing request JSON", Error: err.Error()},
	)
}

// handleError maps file system errors onto HTTP statuses.
func handleError(action string, err error, l *logging) pz.Response {
	status := errorStatus(err)
	l.Message = action
	l.Error = err.Error()
	l.ErrorType = fmt.Sprintf("%T", err)
	return pz.Response{
		Status: status,
		Data: pz.JSON(&pz.HTTPError{
			Status:  status,
			Message: errorMessage(err, status),
		}),
	}.WithLogging(l)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, filesystem.NotFoundErr),
		errors.Is(err, filesystem.NotOpenErr):
		return http.StatusNotFound
	case errors.Is(err, filesystem.ExistsErr):
		return http.StatusConflict
	case errors.Is(err, filesystem.InvalidNameErr),
		errors.Is(err, filesystem.InvalidOffsetErr),
		errors.Is(err, filesystem.InvalidSizeErr):
		return http.StatusBadRequest
	case errors.Is(err, filesystem.OutOfDescriptorsErr),
		errors.Is(err, filesystem.TooManyOpenFilesErr),
		errors.Is(err, device.OutOfBlocksErr):
		return http.StatusInsufficientStorage
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides the details of unexpected errors from clients.
func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

type logging struct {
	Message   string  `json:"message"`
	Name      string  `json:"name,omitempty"`
	Target    string  `json:"target,omitempty"`
	Handle    *Handle `json:"handle,omitempty"`
	ErrorType string  `json:"errorType,omitempty"`
	Error     string  `json:"error,omitempty"`
}
