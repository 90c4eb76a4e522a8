package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	service "github.com/okian/warung/internal/app"
	"github.com/okian/warung/internal/adapters/repository"
	"github.com/okian/warung/internal/adapters/upload"
	"github.com/okian/warung/internal/domain/model"
	"github.com/okian/warung/internal/domain/request"
	"github.com/okian/warung/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func body(t *testing.T, s string) request.MenuBody {
	t.Helper()
	b, err := request.DecodeMenu(strings.NewReader(s))
	if err != nil {
		t.Fatalf("decode %q: %v", s, err)
	}
	return b
}

func seeded(ctx context.Context, opts ...service.Option) *service.Service {
	store := repository.NewMemStore(ctx, repository.WithDefaultMenu())
	return service.New(append([]service.Option{service.WithStore(store)}, opts...)...)
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it starts with an empty menu", func() {
			So(svc, ShouldNotBeNil)
			So(svc.List(context.Background()), ShouldBeEmpty)
			stats := svc.GetStats()
			So(stats["menuItems"], ShouldEqual, 0)
			So(stats["nextId"], ShouldEqual, "1")
			So(stats["uploads"], ShouldEqual, false)
		})
	})
}

func TestService_Create(t *testing.T) {
	Convey("Given a service holding the default menu", t, func() {
		ctx := context.Background()
		svc := seeded(ctx)

		Convey("When creating a valid item without an image", func() {
			item, err := svc.Create(ctx, body(t, `{"name":"Soto Ayam","description":"Kuah kuning","price":20000}`))

			Convey("Then it gets the next id and the default image", func() {
				So(err, ShouldBeNil)
				So(item.ID, ShouldEqual, "7")
				So(item.ImageID, ShouldEqual, model.DefaultImageID)
				So(item.Price, ShouldEqual, 20000.0)
				So(item.UserID, ShouldBeNil)
				So(len(svc.List(ctx)), ShouldEqual, 7)
			})
		})

		Convey("When creating with an owner and an image", func() {
			item, err := svc.Create(ctx, body(t, `{"name":"Es Teh","description":"Manis","price":"5000","imageId":"teh.png","userId":"u1"}`))

			Convey("Then both are kept", func() {
				So(err, ShouldBeNil)
				So(item.ImageID, ShouldEqual, "teh.png")
				So(*item.UserID, ShouldEqual, "u1")
				So(item.Price, ShouldEqual, 5000.0)
			})
		})

		Convey("When the body breaks a field rule", func() {
			_, err := svc.Create(ctx, body(t, `{"name":"","description":"x","price":0}`))

			Convey("Then a validation error is returned and nothing is stored", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(model.Message(err), ShouldContainSubstring, request.MsgNameRequired)
				So(len(svc.List(ctx)), ShouldEqual, 6)
			})
		})

		Convey("When a custom default image is configured", func() {
			svc := seeded(ctx, service.WithDefaultImageID("placeholder.png"))
			item, err := svc.Create(ctx, body(t, `{"name":"a","description":"b","price":1}`))

			Convey("Then it is used", func() {
				So(err, ShouldBeNil)
				So(item.ImageID, ShouldEqual, "placeholder.png")
			})
		})
	})
}

func TestService_Update(t *testing.T) {
	Convey("Given a service with an owned item", t, func() {
		ctx := context.Background()
		svc := seeded(ctx)
		owned, err := svc.Create(ctx, body(t, `{"name":"Bakso","description":"Urat","price":15000,"imageId":"bakso.jpg","userId":"u1"}`))
		So(err, ShouldBeNil)

		Convey("When the owner updates it without an image", func() {
			item, err := svc.Update(ctx, owned.ID, body(t, `{"name":"Bakso Jumbo","description":"Besar","price":20000,"userId":"u1"}`))

			Convey("Then the fields change and the image is kept", func() {
				So(err, ShouldBeNil)
				So(item.ID, ShouldEqual, owned.ID)
				So(item.Name, ShouldEqual, "Bakso Jumbo")
				So(item.ImageID, ShouldEqual, "bakso.jpg")
				So(*item.UserID, ShouldEqual, "u1")
			})
		})

		Convey("When another user updates it", func() {
			_, err := svc.Update(ctx, owned.ID, body(t, `{"name":"x","description":"y","price":1,"userId":"u2"}`))

			Convey("Then it is forbidden", func() {
				So(errors.Is(err, model.ErrForbidden), ShouldBeTrue)
				So(model.Message(err), ShouldEqual, service.MsgForbiddenUpdate)
			})
		})

		Convey("When another user sends an invalid body", func() {
			_, err := svc.Update(ctx, owned.ID, body(t, `{"price":-5,"userId":"u2"}`))

			Convey("Then ownership is reported before validation", func() {
				So(errors.Is(err, model.ErrForbidden), ShouldBeTrue)
			})
		})

		Convey("When the id is unknown and the body is invalid", func() {
			_, err := svc.Update(ctx, "999", body(t, `{"price":-5}`))

			Convey("Then not found is reported first", func() {
				So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
				So(model.Message(err), ShouldEqual, service.MsgNotFound)
			})
		})

		Convey("When an unowned item gets a negative price", func() {
			_, err := svc.Update(ctx, "1", body(t, `{"name":"Mie","description":"Enak","price":-5}`))

			Convey("Then it is rejected and the item is unchanged", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(model.Message(err), ShouldEqual, request.MsgPricePositive)
				item, err := svc.Get(ctx, "1")
				So(err, ShouldBeNil)
				So(item.Price, ShouldEqual, 22000.0)
				So(item.Name, ShouldEqual, "Mie Ayam Komplit")
			})
		})
	})
}

func TestService_Delete(t *testing.T) {
	Convey("Given a service with an owned item", t, func() {
		ctx := context.Background()
		svc := seeded(ctx)
		owned, err := svc.Create(ctx, body(t, `{"name":"Bakso","description":"Urat","price":15000,"userId":"u1"}`))
		So(err, ShouldBeNil)

		Convey("When anyone deletes an unowned item", func() {
			caller := "abc"
			removed, err := svc.Delete(ctx, "1", &caller)

			Convey("Then it is removed", func() {
				So(err, ShouldBeNil)
				So(removed.ID, ShouldEqual, "1")
				_, err := svc.Get(ctx, "1")
				So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When an anonymous caller deletes the owned item", func() {
			_, err := svc.Delete(ctx, owned.ID, nil)

			Convey("Then it is forbidden and kept", func() {
				So(errors.Is(err, model.ErrForbidden), ShouldBeTrue)
				So(model.Message(err), ShouldEqual, service.MsgForbiddenDelete)
				_, err := svc.Get(ctx, owned.ID)
				So(err, ShouldBeNil)
			})
		})

		Convey("When the owner deletes it", func() {
			caller := "u1"
			_, err := svc.Delete(ctx, owned.ID, &caller)

			Convey("Then its id is not reused", func() {
				So(err, ShouldBeNil)
				next, err := svc.Create(ctx, body(t, `{"name":"a","description":"b","price":1}`))
				So(err, ShouldBeNil)
				So(next.ID, ShouldNotEqual, owned.ID)
			})
		})

		Convey("When the id is unknown", func() {
			_, err := svc.Delete(ctx, "999", nil)

			Convey("Then not found is returned", func() {
				So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			})
		})
	})
}

func TestService_UploadImage(t *testing.T) {
	png := append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

	Convey("Given a service with a disk sink", t, func() {
		ctx := context.Background()
		sink, err := upload.NewDiskSink(t.TempDir(), upload.WithMaxBytes(1024))
		So(err, ShouldBeNil)
		svc := service.New(service.WithSink(sink))

		Convey("When uploading a png", func() {
			u, err := svc.UploadImage(ctx, "a.png", bytes.NewReader(png), "http://localhost:3000/")

			Convey("Then the URL points at the uploads route of the request host", func() {
				So(err, ShouldBeNil)
				So(u, ShouldStartWith, "http://localhost:3000/uploads/")
				So(u, ShouldEndWith, ".png")

				name := strings.TrimPrefix(u, "http://localhost:3000/uploads/")
				_, err := svc.ImagePath(name)
				So(err, ShouldBeNil)
			})
		})

		Convey("When a public base URL is configured", func() {
			svc := service.New(service.WithSink(sink), service.WithPublicBaseURL("https://cdn.example.com/"))
			u, err := svc.UploadImage(ctx, "a.png", bytes.NewReader(png), "http://localhost:3000")

			Convey("Then it wins over the request host", func() {
				So(err, ShouldBeNil)
				So(u, ShouldStartWith, "https://cdn.example.com/uploads/")
			})
		})

		Convey("When uploading text", func() {
			_, err := svc.UploadImage(ctx, "a.png", strings.NewReader("hello"), "http://h")

			Convey("Then it is a validation error", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(model.Message(err), ShouldEqual, service.MsgImageType)
			})
		})

		Convey("When uploading too much", func() {
			big := append(append([]byte(nil), png...), make([]byte, 2048)...)
			_, err := svc.UploadImage(ctx, "a.png", bytes.NewReader(big), "http://h")

			Convey("Then the size message is returned", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(model.Message(err), ShouldEqual, service.MsgImageTooLarge)
			})
		})

		Convey("When no file is given", func() {
			_, err := svc.UploadImage(ctx, "", nil, "http://h")

			Convey("Then the image is required", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
				So(model.Message(err), ShouldEqual, service.MsgImageRequired)
			})
		})

		Convey("When resolving a name that was never stored", func() {
			_, err := svc.ImagePath("../etc/passwd")

			Convey("Then it is not found", func() {
				So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			})
		})
	})

	Convey("Given a service without a sink", t, func() {
		svc := service.New()
		_, err := svc.UploadImage(context.Background(), "a.png", bytes.NewReader(png), "http://h")

		Convey("Then uploads fail as internal errors", func() {
			So(errors.Is(err, model.ErrInternal), ShouldBeTrue)
		})
	})
}
