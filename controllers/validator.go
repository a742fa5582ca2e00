package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/middleware"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxPageSize   = 100
	MaxUploadSize = 10 * 1024 * 1024 // 10MB per image
	ImageField    = "image"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// productForm mirrors the multipart product form. Numbers arrive as text.
type productForm struct {
	ProductName   string `form:"productName" validate:"required"`
	Price         string `form:"price" validate:"required"`
	Description   string `form:"description" validate:"required"`
	Age           string `form:"age" validate:"required"`
	Gender        string `form:"gender" validate:"required"`
	Stock         string `form:"stock" validate:"required"`
	BarcodeNumber string `form:"barcodeNumber" validate:"required"`
	Bestseller    string `form:"bestseller"`
}

type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New()}
}

// ParsePagination reads optional page/perPage. Both zero means no paging.
func (rv *RequestValidator) ParsePagination(c *gin.Context) (int, int, error) {
	pageStr, perPageStr := c.Query("page"), c.Query("perPage")
	if pageStr == "" && perPageStr == "" {
		return 0, 0, nil
	}
	if pageStr == "" {
		pageStr = "1"
	}
	if perPageStr == "" {
		perPageStr = "10"
	}

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		return 0, 0, apperrors.BadRequest("invalid page number")
	}
	perPage, err := strconv.Atoi(perPageStr)
	if err != nil || perPage < 1 {
		return 0, 0, apperrors.BadRequest("invalid page size")
	}
	if perPage > MaxPageSize {
		perPage = MaxPageSize
	}
	return page, perPage, nil
}

// ParseCreateProduct turns the multipart product form into a service input.
func (rv *RequestValidator) ParseCreateProduct(c *gin.Context) (services.CreateProductInput, error) {
	var form productForm
	if err := c.ShouldBind(&form); err != nil {
		return services.CreateProductInput{}, apperrors.BadRequest("expected multipart form data")
	}
	trimForm(&form)
	if err := rv.validate.Struct(&form); err != nil {
		return services.CreateProductInput{}, apperrors.Validation("All fields are required", fieldErrors(err))
	}

	price, perr := strconv.ParseFloat(form.Price, 64)
	stock, serr := strconv.Atoi(form.Stock)
	barcode, berr := strconv.ParseInt(form.BarcodeNumber, 10, 64)
	if perr != nil || serr != nil || berr != nil {
		return services.CreateProductInput{}, apperrors.BadRequest("Price, stock, and barcodeNumber must be valid numbers")
	}

	categories, err := parseCategoryIDs(c.PostFormArray("category"))
	if err != nil {
		return services.CreateProductInput{}, err
	}

	in := services.CreateProductInput{
		ProductName:   form.ProductName,
		Price:         price,
		Description:   form.Description,
		Age:           form.Age,
		Gender:        form.Gender,
		Stock:         stock,
		BarcodeNumber: barcode,
		Bestseller:    form.Bestseller == "true",
		Category:      categories,
	}

	mf, err := c.MultipartForm()
	if err != nil {
		return services.CreateProductInput{}, apperrors.BadRequest("expected multipart form data")
	}
	images := mf.File[ImageField]
	if len(images) == 0 {
		return services.CreateProductInput{}, apperrors.BadRequest("NO product image is uploaded")
	}
	for _, img := range images {
		if !rv.IsValidImageType(img) {
			return services.CreateProductInput{}, apperrors.BadRequest(fmt.Sprintf("invalid image type for file %s. Allowed: jpeg, jpg, png, webp, gif", img.Filename))
		}
		if err := rv.ValidateFileSize(img); err != nil {
			return services.CreateProductInput{}, apperrors.BadRequest(err.Error())
		}
		in.Images = append(in.Images, storage.FromMultipart(img))
	}

	if err := rv.validate.Struct(&in); err != nil {
		return services.CreateProductInput{}, apperrors.Validation("invalid product", fieldErrors(err))
	}
	return in, nil
}

func trimForm(f *productForm) {
	for _, s := range []*string{&f.ProductName, &f.Price, &f.Description, &f.Age, &f.Gender, &f.Stock, &f.BarcodeNumber, &f.Bestseller} {
		*s = strings.TrimSpace(*s)
	}
}

// parseCategoryIDs accepts repeated fields or a single JSON array.
func parseCategoryIDs(raw []string) ([]primitive.ObjectID, error) {
	if len(raw) == 1 && strings.HasPrefix(strings.TrimSpace(raw[0]), "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw[0]), &list); err != nil {
			return nil, apperrors.BadRequest("invalid category format, must be a JSON string array")
		}
		raw = list
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, r := range raw {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		id, err := primitive.ObjectIDFromHex(r)
		if err != nil {
			return nil, apperrors.BadRequest("Invalid category ID format")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (rv *RequestValidator) IsValidImageType(file *multipart.FileHeader) bool {
	if allowedImageTypes[strings.ToLower(file.Header.Get("Content-Type"))] {
		return true
	}
	switch strings.ToLower(filepath.Ext(file.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return file.Header.Get("Content-Type") == "" || file.Header.Get("Content-Type") == "application/octet-stream"
	}
	return false
}

func (rv *RequestValidator) ValidateFileSize(file *multipart.FileHeader) error {
	if file.Size > MaxUploadSize {
		return fmt.Errorf("file %s too large (max %dMB)", file.Filename, MaxUploadSize/(1024*1024))
	}
	return nil
}

func fieldErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return out
}

// bindJSON decodes an optional JSON body. An empty body leaves dst untouched.
func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.BadRequest("Invalid JSON body")
	}
	return nil
}

// authUserID fetches the caller's id set by middleware.VerifyToken.
func authUserID(c *gin.Context) (primitive.ObjectID, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.Error(apperrors.ErrUnauthorized)
		return primitive.NilObjectID, false
	}
	return id, true
}
