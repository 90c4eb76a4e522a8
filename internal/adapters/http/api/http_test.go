package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/okian/warung/internal/adapters/http/api"
	"github.com/okian/warung/internal/adapters/repository"
	"github.com/okian/warung/internal/adapters/upload"
	service "github.com/okian/warung/internal/app"
	"github.com/okian/warung/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

var pngImage = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 256)...)

type response struct {
	Success  bool            `json:"success"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Error    string          `json:"error"`
	ImageURL string          `json:"imageUrl"`
}

type menuItem struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageID     string  `json:"imageId"`
	UserID      *string `json:"userId"`
}

func newRouter(t *testing.T, maxUpload int64) *chi.Mux {
	ctx := context.Background()
	sink, err := upload.NewDiskSink(t.TempDir(), upload.WithMaxBytes(maxUpload))
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	svc := service.New(
		service.WithStore(repository.NewMemStore(ctx, repository.WithDefaultMenu())),
		service.WithSink(sink),
	)
	return api.NewServer(svc, api.WithMaxUploadBytes(maxUpload)).Router(ctx)
}

func do(h http.Handler, method, path, body string) (*httptest.ResponseRecorder, response) {
	var rd io.Reader = http.NoBody
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp response
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
	}
	return w, resp
}

func item(resp response) menuItem {
	var it menuItem
	So(json.Unmarshal(resp.Data, &it), ShouldBeNil)
	return it
}

func multipartBody(field, filename string, content []byte) (*bytes.Buffer, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	So(mw.WriteField("note", "hello"), ShouldBeNil)
	if field != "" {
		fw, err := mw.CreateFormFile(field, filename)
		So(err, ShouldBeNil)
		_, err = fw.Write(content)
		So(err, ShouldBeNil)
	}
	So(mw.Close(), ShouldBeNil)
	return &buf, mw.FormDataContentType()
}

func doUpload(h http.Handler, field, filename string, content []byte) (*httptest.ResponseRecorder, response) {
	body, ctype := multipartBody(field, filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var resp response
	So(json.Unmarshal(w.Body.Bytes(), &resp), ShouldBeNil)
	return w, resp
}

func TestMenuRoutes_Read(t *testing.T) {
	Convey("Given a router over the default menu", t, func() {
		h := newRouter(t, 1024)

		Convey("When listing the menu", func() {
			w, resp := do(h, http.MethodGet, "/api/menu", "")

			Convey("Then all seeded items are returned in order", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Success, ShouldBeTrue)
				var items []menuItem
				So(json.Unmarshal(resp.Data, &items), ShouldBeNil)
				So(len(items), ShouldEqual, 6)
				So(items[0].ID, ShouldEqual, "1")
				So(items[5].ID, ShouldEqual, "6")
			})
		})

		Convey("When fetching one item", func() {
			w, resp := do(h, http.MethodGet, "/api/menu/2", "")

			Convey("Then it is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(item(resp).Name, ShouldEqual, "Es Kopi Susu Gula Aren")
			})
		})

		Convey("When fetching an unknown item", func() {
			w, resp := do(h, http.MethodGet, "/api/menu/99", "")

			Convey("Then 404 is returned with a message", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(resp.Success, ShouldBeFalse)
				So(resp.Error, ShouldEqual, service.MsgNotFound)
			})
		})
	})
}

func TestMenuRoutes_Create(t *testing.T) {
	Convey("Given a router over the default menu", t, func() {
		h := newRouter(t, 1024)

		Convey("When creating Soto Ayam", func() {
			w, resp := do(h, http.MethodPost, "/api/menu", `{"name":"Soto Ayam","description":"Soto hangat","price":20000}`)

			Convey("Then it gets id 7 and the default image", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(resp.Success, ShouldBeTrue)
				So(resp.Message, ShouldEqual, api.MsgCreated)
				created := item(resp)
				So(created.ID, ShouldEqual, "7")
				So(created.ImageID, ShouldEqual, "default-menu.jpg")
				So(created.UserID, ShouldBeNil)

				_, got := do(h, http.MethodGet, "/api/menu/7", "")
				So(item(got), ShouldResemble, created)
			})
		})

		Convey("When required fields are missing", func() {
			w, resp := do(h, http.MethodPost, "/api/menu", `{"name":"Soto"}`)

			Convey("Then 400 is returned and nothing is stored", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Success, ShouldBeFalse)
				So(resp.Error, ShouldContainSubstring, "Deskripsi menu wajib diisi")
				_, list := do(h, http.MethodGet, "/api/menu", "")
				var items []menuItem
				So(json.Unmarshal(list.Data, &items), ShouldBeNil)
				So(len(items), ShouldEqual, 6)
			})
		})

		Convey("When the body is not JSON", func() {
			w, resp := do(h, http.MethodPost, "/api/menu", `{"name":`)

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Error, ShouldEqual, "Format data tidak valid")
			})
		})
	})
}

func TestMenuRoutes_Update(t *testing.T) {
	Convey("Given a router with an owned item", t, func() {
		h := newRouter(t, 1024)
		_, resp := do(h, http.MethodPost, "/api/menu", `{"name":"Bakso","description":"Urat","price":15000,"imageId":"bakso.jpg","userId":"u1"}`)
		owned := item(resp)

		Convey("When item 1 gets a negative price", func() {
			w, resp := do(h, http.MethodPut, "/api/menu/1", `{"name":"X","description":"Y","price":-5}`)

			Convey("Then 400 is returned and the item is unchanged", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Error, ShouldEqual, "Harga harus lebih dari 0")
				_, got := do(h, http.MethodGet, "/api/menu/1", "")
				So(item(got).Name, ShouldEqual, "Mie Ayam Komplit")
				So(item(got).Price, ShouldEqual, 22000.0)
			})
		})

		Convey("When the owner updates the item", func() {
			w, resp := do(h, http.MethodPut, "/api/menu/"+owned.ID, `{"name":"Bakso Jumbo","description":"Besar","price":"20000","userId":"u1"}`)

			Convey("Then it is updated and keeps its image and owner", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Message, ShouldEqual, api.MsgUpdated)
				updated := item(resp)
				So(updated.Name, ShouldEqual, "Bakso Jumbo")
				So(updated.Price, ShouldEqual, 20000.0)
				So(updated.ImageID, ShouldEqual, "bakso.jpg")
				So(*updated.UserID, ShouldEqual, "u1")
			})
		})

		Convey("When someone else updates the item", func() {
			w, resp := do(h, http.MethodPut, "/api/menu/"+owned.ID, `{"name":"a","description":"b","price":1,"userId":"u2"}`)

			Convey("Then 403 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
				So(resp.Error, ShouldEqual, service.MsgForbiddenUpdate)
			})
		})

		Convey("When updating an unknown id", func() {
			w, _ := do(h, http.MethodPut, "/api/menu/404", `{"name":"a","description":"b","price":1}`)

			Convey("Then 404 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestMenuRoutes_Delete(t *testing.T) {
	Convey("Given a router with an owned item", t, func() {
		h := newRouter(t, 1024)
		_, resp := do(h, http.MethodPost, "/api/menu", `{"name":"Bakso","description":"Urat","price":15000,"userId":"u1"}`)
		owned := item(resp)

		Convey("When deleting unowned item 1 as abc", func() {
			w, resp := do(h, http.MethodDelete, "/api/menu/1", `{"userId":"abc"}`)

			Convey("Then the deleted record is returned and it is gone", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Message, ShouldEqual, api.MsgDeleted)
				So(item(resp).ID, ShouldEqual, "1")
				w, _ := do(h, http.MethodGet, "/api/menu/1", "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When deleting the owned item without a body", func() {
			w, resp := do(h, http.MethodDelete, "/api/menu/"+owned.ID, "")

			Convey("Then 403 is returned and the item stays", func() {
				So(w.Code, ShouldEqual, http.StatusForbidden)
				So(resp.Error, ShouldEqual, service.MsgForbiddenDelete)
				w, _ := do(h, http.MethodGet, "/api/menu/"+owned.ID, "")
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When the owner deletes it", func() {
			w, _ := do(h, http.MethodDelete, "/api/menu/"+owned.ID, `{"userId":"u1"}`)

			Convey("Then it succeeds", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When deleting an unknown id", func() {
			w, _ := do(h, http.MethodDelete, "/api/menu/404", "")

			Convey("Then 404 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestUploadRoutes(t *testing.T) {
	Convey("Given a router with a 1 KiB upload limit", t, func() {
		h := newRouter(t, 1024)

		Convey("When uploading a png", func() {
			w, resp := doUpload(h, "image", "photo.png", pngImage)

			Convey("Then a URL under /uploads is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(resp.Success, ShouldBeTrue)
				So(resp.ImageURL, ShouldStartWith, "http://example.com/uploads/")
				So(resp.ImageURL, ShouldEndWith, ".png")
			})

			Convey("And the file can be fetched back", func() {
				path := strings.TrimPrefix(resp.ImageURL, "http://example.com")
				req := httptest.NewRequest(http.MethodGet, path, http.NoBody)
				got := httptest.NewRecorder()
				h.ServeHTTP(got, req)
				So(got.Code, ShouldEqual, http.StatusOK)
				So(got.Body.Bytes(), ShouldResemble, pngImage)
			})
		})

		Convey("When uploading a text file", func() {
			w, resp := doUpload(h, "image", "notes.png", []byte("plain text"))

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Success, ShouldBeFalse)
				So(resp.Error, ShouldEqual, service.MsgImageType)
			})
		})

		Convey("When the image is too large", func() {
			big := append(append([]byte(nil), pngImage...), make([]byte, 4096)...)
			w, resp := doUpload(h, "image", "big.png", big)

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Error, ShouldEqual, service.MsgImageTooLarge)
			})
		})

		Convey("When the image field is missing", func() {
			w, resp := doUpload(h, "", "", nil)

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Error, ShouldEqual, service.MsgImageRequired)
			})
		})

		Convey("When the request is not multipart", func() {
			w, resp := do(h, http.MethodPost, "/api/upload", `{"image":"x"}`)

			Convey("Then 400 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(resp.Success, ShouldBeFalse)
			})
		})

		Convey("When fetching a file that does not exist", func() {
			w, resp := do(h, http.MethodGet, "/uploads/missing.png", "")

			Convey("Then 404 is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(resp.Success, ShouldBeFalse)
			})
		})
	})
}

func TestRouter_Ambient(t *testing.T) {
	Convey("Given a router", t, func() {
		h := newRouter(t, 1024)

		Convey("When calling an unknown route", func() {
			w, resp := do(h, http.MethodGet, "/nope", "")

			Convey("Then the not found envelope is returned", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(resp.Success, ShouldBeFalse)
				So(resp.Error, ShouldEqual, api.MsgRouteNotFound)
			})
		})

		Convey("When using an unsupported method", func() {
			w, resp := do(h, http.MethodPatch, "/api/menu/1", `{}`)

			Convey("Then it is treated as an unknown route", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(resp.Error, ShouldEqual, api.MsgRouteNotFound)
			})
		})

		Convey("When sending a preflight request", func() {
			req := httptest.NewRequest(http.MethodOptions, "/api/menu", http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then any origin is allowed", func() {
				So(w.Code, ShouldEqual, http.StatusNoContent)
				So(w.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "*")
			})
		})

		Convey("When a handler panics", func() {
			h.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("boom") })
			w, resp := do(h, http.MethodGet, "/boom", "")

			Convey("Then the generic server error is returned", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(resp.Error, ShouldEqual, api.MsgInternal)
			})
		})

		Convey("When reading stats", func() {
			w, resp := do(h, http.MethodGet, "/stats", "")

			Convey("Then the counts are reported", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var stats map[string]any
				So(json.Unmarshal(resp.Data, &stats), ShouldBeNil)
				So(stats["menuItems"], ShouldEqual, 6.0)
				So(stats["nextId"], ShouldEqual, "7")
			})
		})

		Convey("When scraping health", func() {
			req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			Convey("Then Prometheus metrics are served", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "warung_menu_items")
			})
		})
	})
}
