package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/transport"
	"github.com/Rojan6190/shop/pkg/logging"
)

const imageField = "image"

type ImageHTTP struct {
	Svc *service.ImageService
}

// withUpload opens the multipart image field and hands it to fn.
func withUpload(c echo.Context, fn func(service.Upload) error) error {
	fh, err := c.FormFile(imageField)
	if err != nil {
		return errors.New("no file provided")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	return fn(service.Upload{Filename: fh.Filename, Size: fh.Size, Body: f})
}

func (h *ImageHTTP) GetProductImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.get_product_image")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_product_image_error", err.Error(), err)
	}

	p, err := h.Svc.ProductImage(ctx, id)
	if err != nil {
		return fail(l, "get_product_image_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewImageResponse(p))
}

func (h *ImageHTTP) UploadProductImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.upload_product_image")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "upload_product_image_error", err.Error(), err)
	}

	var resp transport.ImageResponse
	uploadErr := withUpload(c, func(up service.Upload) error {
		p, err := h.Svc.UploadProductImage(ctx, id, up)
		if err != nil {
			return fail(l, "upload_product_image_error", err)
		}
		resp = transport.NewImageResponse(p)
		return nil
	})
	if uploadErr != nil {
		var he *echo.HTTPError
		if errors.As(uploadErr, &he) {
			return he
		}
		return badRequest(l, "upload_product_image_error", uploadErr.Error(), uploadErr)
	}

	l.Info("upload_product_image_success", "product_id", id)
	return c.JSON(http.StatusOK, resp)
}

func (h *ImageHTTP) DeleteProductImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.delete_product_image")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "delete_product_image_error", err.Error(), err)
	}

	if _, err := h.Svc.DeleteProductImage(ctx, id); err != nil {
		return fail(l, "delete_product_image_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ImageHTTP) GetUserImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.get_user_image")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	u, err := h.Svc.UserImage(ctx, uid)
	if err != nil {
		return fail(l, "get_user_image_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewUserImageResponse(u))
}

func (h *ImageHTTP) UploadUserImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.upload_user_image")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var resp transport.UserImageResponse
	uploadErr := withUpload(c, func(up service.Upload) error {
		u, err := h.Svc.UploadUserImage(ctx, uid, up)
		if err != nil {
			return fail(l, "upload_user_image_error", err)
		}
		resp = transport.NewUserImageResponse(u)
		return nil
	})
	if uploadErr != nil {
		var he *echo.HTTPError
		if errors.As(uploadErr, &he) {
			return he
		}
		return badRequest(l, "upload_user_image_error", uploadErr.Error(), uploadErr)
	}

	l.Info("upload_user_image_success")
	return c.JSON(http.StatusOK, resp)
}

func (h *ImageHTTP) DeleteUserImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.delete_user_image")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	if _, err := h.Svc.DeleteUserImage(ctx, uid); err != nil {
		return fail(l, "delete_user_image_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
