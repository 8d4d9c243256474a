package receipt

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

var _ = Describe("Server", func() {
	var (
		store       *mockStore
		service     *Service
		server      *Server
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		store = newMockStore()
		service = NewService(store)
		server = NewServerWithMux(service, http.NewServeMux())
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	postJSON := func(path string, body []byte) *http.Response {
		resp, err := http.Post(ghttpServer.URL()+path, "application/json", bytes.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	decodeBody := func(resp *http.Response) map[string]json.RawMessage {
		defer resp.Body.Close()
		data, err := io.ReadAll(resp.Body)
		Expect(err).NotTo(HaveOccurred())
		var body map[string]json.RawMessage
		Expect(json.Unmarshal(data, &body)).NotTo(HaveOccurred())
		return body
	}

	Describe("handleProcessReceipt", func() {
		When("the receipt is valid", func() {
			var resp *http.Response

			JustBeforeEach(func() {
				payload, err := json.Marshal(targetReceipt())
				Expect(err).NotTo(HaveOccurred())
				resp = postJSON("/receipts/process", payload)
			})

			It("should return status OK", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})

			It("should set Content-Type to application/json", func() {
				defer resp.Body.Close()
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))
			})

			It("should return the issued id", func() {
				body := decodeBody(resp)
				var id string
				Expect(json.Unmarshal(body["id"], &id)).NotTo(HaveOccurred())
				Expect(id).To(Equal("test-id"))
			})
		})

		When("the body is not JSON", func() {
			It("should return status Bad Request", func() {
				resp := postJSON("/receipts/process", []byte("not json at all"))
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})

		When("the receipt fails validation", func() {
			var resp *http.Response

			JustBeforeEach(func() {
				bad := targetReceipt()
				bad.Items = []Item{}
				payload, err := json.Marshal(bad)
				Expect(err).NotTo(HaveOccurred())
				resp = postJSON("/receipts/process", payload)
			})

			It("should return status Bad Request", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
				resp.Body.Close()
			})

			It("should return the validation reason", func() {
				body := decodeBody(resp)
				var reason string
				Expect(json.Unmarshal(body["error"], &reason)).NotTo(HaveOccurred())
				Expect(reason).To(ContainSubstring("at least one item"))
			})

			It("should not store the receipt", func() {
				resp.Body.Close()
				count, err := store.Count()
				Expect(err).NotTo(HaveOccurred())
				Expect(count).To(BeZero())
			})
		})

		When("request method is not POST", func() {
			It("should return status Method Not Allowed", func() {
				resp, err := http.Get(ghttpServer.URL() + "/receipts/process")
				Expect(err).NotTo(HaveOccurred())
				Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
				resp.Body.Close()
			})
		})
	})

	Describe("handleGetPoints", func() {
		When("the receipt exists", func() {
			var resp *http.Response

			JustBeforeEach(func() {
				id, err := service.ProcessReceipt(targetReceipt())
				Expect(err).NotTo(HaveOccurred())

				resp, err = http.Get(ghttpServer.URL() + "/receipts/" + id + "/points")
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return status OK", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				resp.Body.Close()
			})

			It("should return the receipt's points", func() {
				body := decodeBody(resp)
				var points int64
				Expect(json.Unmarshal(body["points"], &points)).NotTo(HaveOccurred())
				Expect(points).To(Equal(int64(28)))
			})
		})

		When("the id was never issued", func() {
			var resp *http.Response

			JustBeforeEach(func() {
				var err error
				resp, err = http.Get(ghttpServer.URL() + "/receipts/2b1c7b2e-4f38-41f1-9b0a-9d2a47f7a101/points")
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return status Not Found", func() {
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				resp.Body.Close()
			})

			It("should return a human-readable reason", func() {
				body := decodeBody(resp)
				var reason string
				Expect(json.Unmarshal(body["error"], &reason)).NotTo(HaveOccurred())
				Expect(reason).To(ContainSubstring("No receipt found"))
			})
		})

		When("request method is not GET", func() {
			It("should return status Method Not Allowed", func() {
				resp := postJSON("/receipts/test-id/points", nil)
				Expect(resp.StatusCode).To(Equal(http.StatusMethodNotAllowed))
				resp.Body.Close()
			})
		})
	})
})
