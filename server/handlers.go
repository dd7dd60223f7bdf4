package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tsawler/slidemap/convert"
	"github.com/tsawler/slidemap/format"
	"github.com/tsawler/slidemap/pptx"
	"github.com/tsawler/slidemap/spatial"
	"github.com/tsawler/slidemap/store"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.ListJobs()
	if err != nil {
		s.htmlError(w, http.StatusInternalServerError, err)
		return
	}
	s.render(w, "index.html", map[string]any{"Jobs": jobs})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxBytes := s.cfg.MaxUploadMB << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		s.htmlError(w, http.StatusBadRequest, fmt.Errorf("reading upload: %w", err))
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".pptx") {
		s.htmlError(w, http.StatusBadRequest, errors.New("only .pptx files are accepted"))
		return
	}

	job, err := s.store.CreateJob(header.Filename)
	if err != nil {
		s.htmlError(w, http.StatusInternalServerError, err)
		return
	}

	dst, err := os.Create(s.store.PPTXPath(job))
	if err != nil {
		s.htmlError(w, http.StatusInternalServerError, err)
		return
	}
	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		s.htmlError(w, http.StatusInternalServerError, fmt.Errorf("saving upload: %w", err))
		return
	}
	dst.Close()

	if f, err := format.DetectFile(s.store.PPTXPath(job)); err != nil || f != format.PPTX {
		s.htmlError(w, http.StatusBadRequest,
			fmt.Errorf("upload is not a PowerPoint file (detected %v)", f))
		return
	}

	if err := s.process(r, job); err != nil {
		s.htmlError(w, http.StatusUnprocessableEntity, err)
		return
	}

	http.Redirect(w, r, "/job/"+job.ID, http.StatusSeeOther)
}

// process parses the uploaded deck, builds and stores its spatial map,
// and renders slide images. Image export failures are tolerated; the
// schematic previews always exist.
func (s *Server) process(r *http.Request, job *store.Job) error {
	doc, err := pptx.Open(s.store.PPTXPath(job))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", job.Filename, err)
	}

	mapping := s.mapper.Map(doc)
	if err := s.store.SaveMapping(job.ID, mapping); err != nil {
		return err
	}
	if err := s.store.SetSlideCount(job.ID, len(mapping.Slides)); err != nil {
		return err
	}

	if err := s.renderer.RenderAll(mapping, s.previewDir(job.ID)); err != nil {
		s.log.Warn("preview rendering failed", "job", job.ID, "error", err)
	}

	err = s.exporter.Export(r.Context(), s.store.PPTXPath(job), s.store.ImagesDir(job.ID), len(mapping.Slides))
	if err != nil {
		s.log.Warn("slide image export unavailable", "job", job.ID, "error", err)
	}
	return nil
}

func (s *Server) previewDir(jobID string) string {
	return filepath.Join(s.store.JobDir(jobID), "previews")
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	job, mapping, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	s.render(w, "job.html", map[string]any{"Job": job, "Mapping": mapping})
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	job, mapping, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	n, err := strconv.Atoi(chi.URLParam(r, "slide"))
	if err != nil {
		s.htmlError(w, http.StatusBadRequest, errors.New("bad slide number"))
		return
	}
	rec := mapping.Slide(n)
	if rec == nil {
		s.htmlError(w, http.StatusNotFound, errors.New("no such slide"))
		return
	}
	s.render(w, "edit.html", map[string]any{
		"Job":   job,
		"Slide": rec,
		"Next":  n + 1,
		"Prev":  n - 1,
		"Last":  len(mapping.Slides) - 1,
	})
}

func (s *Server) handleDownloadJSON(w http.ResponseWriter, r *http.Request) {
	job, mapping, ok := s.loadJob(w, r)
	if !ok {
		return
	}
	base := strings.TrimSuffix(job.Filename, filepath.Ext(job.Filename))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", base+".spatial.json"))
	s.writeJSON(w, http.StatusOK, mapping)
}

func (s *Server) handleSlideImage(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	n, err := strconv.Atoi(chi.URLParam(r, "slide"))
	if err != nil || n < 0 {
		http.NotFound(w, r)
		return
	}

	if path := convert.SlideImage(s.store.ImagesDir(jobID), n); path != "" {
		http.ServeFile(w, r, path)
		return
	}
	preview := filepath.Join(s.previewDir(jobID), fmt.Sprintf("slide_%02d.png", n))
	if _, err := os.Stat(preview); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, preview)
}

func (s *Server) handleGetSlide(w http.ResponseWriter, r *http.Request) {
	rec, ok := s.loadSlide(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleUpdateComponent(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	n, err := strconv.Atoi(chi.URLParam(r, "slide"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "bad slide number")
		return
	}

	var upd store.ComponentUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		s.jsonError(w, http.StatusBadRequest, "bad request body")
		return
	}

	comp, err := s.store.UpdateComponent(jobID, n, chi.URLParam(r, "componentID"), upd)
	if err != nil {
		s.storeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, comp)
}

func (s *Server) handleDeleteComponent(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	n, err := strconv.Atoi(chi.URLParam(r, "slide"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "bad slide number")
		return
	}

	if err := s.store.DeleteComponent(jobID, n, chi.URLParam(r, "componentID")); err != nil {
		s.storeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadJob(w http.ResponseWriter, r *http.Request) (*store.Job, *spatial.Mapping, bool) {
	jobID := chi.URLParam(r, "jobID")
	job, err := s.store.Job(jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.htmlError(w, http.StatusNotFound, errors.New("no such job"))
		} else {
			s.htmlError(w, http.StatusInternalServerError, err)
		}
		return nil, nil, false
	}
	mapping, err := s.store.LoadMapping(jobID)
	if err != nil {
		s.htmlError(w, http.StatusInternalServerError, err)
		return nil, nil, false
	}
	return job, mapping, true
}

func (s *Server) loadSlide(w http.ResponseWriter, r *http.Request) (*spatial.SlideRecord, bool) {
	jobID := chi.URLParam(r, "jobID")
	n, err := strconv.Atoi(chi.URLParam(r, "slide"))
	if err != nil {
		s.jsonError(w, http.StatusBadRequest, "bad slide number")
		return nil, false
	}

	mapping, err := s.store.LoadMapping(jobID)
	if err != nil {
		s.storeError(w, err)
		return nil, false
	}
	rec := mapping.Slide(n)
	if rec == nil {
		s.jsonError(w, http.StatusNotFound, "no such slide")
		return nil, false
	}
	return rec, true
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("template execution failed", "template", name, "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response failed", "error", err)
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) storeError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		s.jsonError(w, http.StatusNotFound, "not found")
		return
	}
	s.log.Error("store operation failed", "error", err)
	s.jsonError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) htmlError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := map[string]any{"Status": status, "Message": err.Error()}
	if terr := s.tmpl.ExecuteTemplate(w, "error.html", data); terr != nil {
		s.log.Error("template execution failed", "template", "error.html", "error", terr)
	}
}
