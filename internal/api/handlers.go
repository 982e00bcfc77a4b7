package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"gomlready/app"
	"gomlready/internal/errors"
	"gomlready/internal/report"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"persistence": s.service.Persistent(),
		"uptime":      time.Since(s.started).Round(time.Second).String(),
	})
}

// handleAnalyzeUpload accepts a multipart "file" plus optional task_type
// and target_column form fields.
func (s *Server) handleAnalyzeUpload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		if tooLarge(err) {
			s.respondTooLarge(c)
			return
		}
		s.respondError(c, errors.InvalidInput("multipart field 'file' is required"))
		return
	}

	opts, err := app.ParseOptions(c.PostForm("task_type"), c.PostForm("target_column"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	file, err := header.Open()
	if err != nil {
		s.respondError(c, errors.Wrap(err, "failed to open upload"))
		return
	}
	defer file.Close()

	res, err := s.service.AnalyzeUpload(c.Request.Context(), header.Filename, file, opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// handleAnalyzeJSON takes the dataset as the request body. Query parameters
// data_path, task_type and target_column are optional.
func (s *Server) handleAnalyzeJSON(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		if tooLarge(err) {
			s.respondTooLarge(c)
			return
		}
		s.respondError(c, errors.Wrap(err, "failed to read request body"))
		return
	}

	opts, err := app.ParseOptions(c.Query("task_type"), c.Query("target_column"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	res, err := s.service.AnalyzeJSON(c.Request.Context(), body, c.Query("data_path"), opts)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleGetAnalysis(c *gin.Context) {
	res, err := s.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleListAnalyses(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.respondError(c, errors.InvalidInput("limit must be an integer"))
			return
		}
		limit = n
	}

	summaries, err := s.service.List(c.Request.Context(), limit)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": summaries, "count": len(summaries)})
}

// handleReport renders a stored result as HTML, or Markdown with
// ?format=markdown.
func (s *Server) handleReport(c *gin.Context) {
	res, err := s.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	switch c.DefaultQuery("format", "html") {
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", report.HTML(res))
	case "markdown", "md":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(report.Markdown(res)))
	default:
		s.respondError(c, errors.InvalidInput("format must be html or markdown"))
	}
}

func (s *Server) respondError(c *gin.Context, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": errors.GetCode(err)})
}

func (s *Server) respondTooLarge(c *gin.Context) {
	c.JSON(http.StatusRequestEntityTooLarge, gin.H{
		"error": "upload exceeds " + strconv.FormatInt(s.maxUpload>>20, 10) + " MB",
		"code":  errors.CodeInvalidInput,
	})
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return stderrors.As(err, &maxErr)
}
