package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/thiwankabandara/giftonline-backend/api/responses"
	uploadsvc "github.com/thiwankabandara/giftonline-backend/internal/uploads"
	pkgerrors "github.com/thiwankabandara/giftonline-backend/pkg/errors"
	"github.com/thiwankabandara/giftonline-backend/pkg/logger"
)

// memoryThreshold caps how much of a multipart body stays in memory before
// spilling to temp files.
const memoryThreshold = 8 << 20

// UploadImage stores a single product image from the "image" form field.
func UploadImage(svc uploadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(memoryThreshold); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "image file is required"))
			return
		}
		defer file.Close()

		stored, err := svc.SaveImage(r.Context(), uploadFromHeader(file, header))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, stored)
	}
}

// UploadImages stores a batch of product images from the "images" form field.
func UploadImages(svc uploadsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(memoryThreshold); err != nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		var headers []*multipart.FileHeader
		if r.MultipartForm != nil {
			headers = r.MultipartForm.File["images"]
		}
		if len(headers) == 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "no files uploaded"))
			return
		}

		uploads := make([]uploadsvc.Upload, 0, len(headers))
		var files []multipart.File
		defer func() {
			for _, f := range files {
				f.Close()
			}
		}()
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeValidation, err, "reading uploaded file"))
				return
			}
			files = append(files, file)
			uploads = append(uploads, uploadFromHeader(file, header))
		}

		stored, err := svc.SaveImages(r.Context(), uploads)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteJSON(w, http.StatusCreated, map[string]any{"images": stored})
	}
}

func uploadFromHeader(file multipart.File, header *multipart.FileHeader) uploadsvc.Upload {
	return uploadsvc.Upload{
		Filename: header.Filename,
		Size:     header.Size,
		Reader:   file,
	}
}
