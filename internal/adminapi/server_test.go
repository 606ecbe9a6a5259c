/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

package adminapi_test

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/slamd/internal/adminapi"
	"github.com/nabbar/slamd/internal/auth"
	"github.com/nabbar/slamd/internal/jobclass"
	"github.com/nabbar/slamd/internal/logging"
	"github.com/nabbar/slamd/internal/registry"
	"github.com/nabbar/slamd/internal/scheduler"
)

func basicAuthHeader(user, pass string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(user+":"+pass))
}

var _ = Describe("Server", func() {
	var (
		sched *scheduler.Scheduler
		srv   *adminapi.Server
	)

	BeforeEach(func() {
		sched = scheduler.New(logging.New(), registry.New())
	})

	Describe("without auth configured", func() {
		BeforeEach(func() {
			srv = adminapi.New(logging.New(), sched, nil, nil, nil, adminapi.Config{Addr: ":0"})
		})

		It("reports healthy", func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/healthz", nil)
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("lists the registered job classes", func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/classes", nil)
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			var body struct {
				Classes []struct {
					Name string `json:"name"`
				} `json:"classes"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())

			names := make([]string, 0, len(body.Classes))
			for _, c := range body.Classes {
				names = append(names, c.Name)
			}
			Expect(names).To(ContainElement(jobclass.NoopName))
		})

		It("submits a job and reports it through list and get", func() {
			payload, _ := json.Marshal(map[string]interface{}{
				"job_id":     "job-http-1",
				"class_name": jobclass.NoopName,
				"parameters": map[string]interface{}{"tick": float64(10)},
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusAccepted))

			w2 := httptest.NewRecorder()
			req2, _ := http.NewRequest(http.MethodGet, "/jobs/job-http-1", nil)
			srv.Engine().ServeHTTP(w2, req2)
			Expect(w2.Code).To(Equal(http.StatusOK))

			w3 := httptest.NewRecorder()
			req3, _ := http.NewRequest(http.MethodGet, "/jobs", nil)
			srv.Engine().ServeHTTP(w3, req3)
			Expect(w3.Code).To(Equal(http.StatusOK))
			Expect(w3.Body.String()).To(ContainSubstring("job-http-1"))
		})

		It("rejects a job submission for an unknown class", func() {
			payload, _ := json.Marshal(map[string]interface{}{
				"job_id": "job-http-2", "class_name": "no-such-class",
			})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("disables a pending job through the control endpoint", func() {
			payload, _ := json.Marshal(map[string]interface{}{
				"job_id": "job-http-3", "class_name": jobclass.NoopName,
				"start_time": time.Now().Add(time.Hour),
			})
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/jobs", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusAccepted))

			w2 := httptest.NewRecorder()
			req2, _ := http.NewRequest(http.MethodPost, "/jobs/job-http-3/disable", nil)
			srv.Engine().ServeHTTP(w2, req2)
			Expect(w2.Code).To(Equal(http.StatusOK))
		})

		It("reports not found when controlling an unknown job", func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/jobs/no-such-job/stop", nil)
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("with Basic auth configured", func() {
		BeforeEach(func() {
			table := auth.NewStaticTable(map[string]string{"operator": "secret"})
			srv = adminapi.New(logging.New(), sched, nil, nil, table.Validator(), adminapi.Config{Addr: ":0"})
		})

		It("rejects a request with no Authorization header", func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/jobs", nil)
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a request with the wrong credential", func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/jobs", nil)
			req.Header.Set("Authorization", basicAuthHeader("operator", "wrong"))
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("accepts a request with the right credential", func() {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/jobs", nil)
			req.Header.Set("Authorization", basicAuthHeader("operator", "secret"))
			srv.Engine().ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
		})
	})
})
