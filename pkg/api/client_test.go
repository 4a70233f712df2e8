package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/appetiteclub/frontdesk/pkg/api"
	"github.com/appetiteclub/frontdesk/pkg/api/apitest"
	"github.com/appetiteclub/frontdesk/pkg/enums/location"
	"github.com/appetiteclub/frontdesk/pkg/enums/tablestatus"
)

func newSignedInClient(t *testing.T, srv *apitest.Server) *api.Client {
	t.Helper()
	session := api.NewSession()
	if _, err := session.Login(apitest.Username, apitest.Password); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	return api.NewClient(srv.APIURL(), session)
}

func TestClientAcceptsWrappedAndBareBodies(t *testing.T) {
	tests := []struct {
		name string
		bare bool
	}{
		{name: "wrapped", bare: false},
		{name: "bare", bare: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer()
			defer srv.Close()
			srv.SetBare(tt.bare)
			seeded := srv.SeedTable(api.Table{Number: 5, Capacity: 4, Location: location.Locations.Interior.Code()})

			client := newSignedInClient(t, srv)
			tables, err := client.Tables().List(context.Background())
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(tables) != 1 {
				t.Fatalf("List() returned %d tables, want 1", len(tables))
			}
			if tables[0].ID != seeded.ID || tables[0].Number != 5 {
				t.Errorf("List()[0] = %+v, want id %s number 5", tables[0], seeded.ID)
			}
			if tables[0].State() != tablestatus.Statuses.Available {
				t.Errorf("State() = %v, want available", tables[0].State())
			}

			one, err := client.Tables().Get(context.Background(), seeded.ID)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if one.Capacity != 4 {
				t.Errorf("Get().Capacity = %d, want 4", one.Capacity)
			}
		})
	}
}

func TestClientProtectedCallWithoutCredential(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	client := api.NewClient(srv.APIURL(), api.NewSession())
	_, err := client.Tables().List(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("List() error = %v, want ErrUnauthorized", err)
	}
	if n := len(srv.Calls()); n != 0 {
		t.Errorf("server received %d calls, want 0", n)
	}
}

func TestClientRejectedCredential(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	session := api.NewSession()
	if _, err := session.Login("admin", "wrong"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	client := api.NewClient(srv.APIURL(), session)

	_, err := client.Orders().List(context.Background())
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("List() error = %v, want ErrUnauthorized", err)
	}
	if got := api.UserMessage(err); got != "Authentification requise" {
		t.Errorf("UserMessage() = %q, want server message", got)
	}
}

func TestClientPublicCallsNeedNoCredential(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.SeedMenuItem(api.MenuItem{Name: "Soupe", Price: 7, Category: "entrée", Available: true})

	client := api.NewClient(srv.APIURL(), nil)
	items, err := client.Menu().List(context.Background())
	if err != nil {
		t.Fatalf("Menu().List() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("Menu().List() returned %d items, want 1", len(items))
	}

	_, err = client.Waitlist().Create(context.Background(), api.WaitlistInput{
		CustomerName:   "Awa",
		CustomerPhone:  "0600000000",
		Date:           api.NewDate(2026, 5, 1),
		Time:           "20:00",
		NumberOfGuests: 2,
	})
	if err != nil {
		t.Errorf("Waitlist().Create() error = %v", err)
	}
}

func TestClientRetriesReadsOnce(t *testing.T) {
	tests := []struct {
		name      string
		failures  int
		wantErr   bool
		wantCalls int
	}{
		{name: "recoversAfterOneFailure", failures: 1, wantErr: false, wantCalls: 2},
		{name: "givesUpAfterSecondFailure", failures: 2, wantErr: true, wantCalls: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := apitest.NewServer()
			defer srv.Close()
			srv.FailNext(http.MethodGet, "/tables", http.StatusServiceUnavailable, tt.failures)

			client := newSignedInClient(t, srv)
			_, err := client.Tables().List(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("List() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, api.ErrNetwork) {
				t.Errorf("List() error = %v, want ErrNetwork", err)
			}
			if got := srv.CountCalls(http.MethodGet, "/tables"); got != tt.wantCalls {
				t.Errorf("GET /tables calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestClientNeverRetriesMutations(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	srv.FailNext(http.MethodPost, "/tables", 0, 1)

	client := newSignedInClient(t, srv)
	_, err := client.Tables().Create(context.Background(), api.TableInput{
		Number:   1,
		Capacity: 2,
		Location: location.Locations.Bar.Code(),
	})
	if !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("Create() error = %v, want ErrNetwork", err)
	}
	if got := srv.CountCalls(http.MethodPost, "/tables"); got != 1 {
		t.Errorf("POST /tables calls = %d, want 1", got)
	}
}

func TestClientRejectsInvalidIDBeforeDispatch(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	client := newSignedInClient(t, srv)
	_, err := client.Tables().UpdateStatus(context.Background(), "table-5", tablestatus.Statuses.Reserved)
	if !errors.Is(err, api.ErrValidation) {
		t.Fatalf("UpdateStatus() error = %v, want ErrValidation", err)
	}
	if n := len(srv.Calls()); n != 0 {
		t.Errorf("server received %d calls, want 0", n)
	}
}

func TestClientMapsNotFound(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()

	client := newSignedInClient(t, srv)
	_, err := client.Orders().Get(context.Background(), "65f0c0ffee0000000000abcd")
	if !errors.Is(err, api.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}

	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("Get() error = %#v, want *api.Error with status 404", err)
	}
}

func TestClientConvertConflict(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	table := srv.SeedTable(api.Table{Number: 3, Capacity: 4, Location: "terrasse", Status: tablestatus.Statuses.Occupied.Code()})
	entry := srv.SeedWaitlist(api.WaitlistEntry{CustomerName: "Luc", CustomerPhone: "0611", NumberOfGuests: 2})

	client := newSignedInClient(t, srv)
	_, err := client.Waitlist().Convert(context.Background(), entry.ID, table.ID)
	if !errors.Is(err, api.ErrConflict) {
		t.Fatalf("Convert() error = %v, want ErrConflict", err)
	}
	if got := api.UserMessage(err); got != "Table non disponible" {
		t.Errorf("UserMessage() = %q, want %q", got, "Table non disponible")
	}
}

func TestOrderLinesDecodePopulatedItems(t *testing.T) {
	srv := apitest.NewServer()
	defer srv.Close()
	soup := srv.SeedMenuItem(api.MenuItem{Name: "Soupe", Price: 7.5, Category: "entrée", Available: true})

	client := newSignedInClient(t, srv)
	order, err := client.Orders().Create(context.Background(), api.OrderInput{
		CustomerName: "Ines",
		Items:        []api.OrderLineInput{{MenuItem: soup.ID, Quantity: 2}},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !order.Table.IsZero() {
		t.Errorf("Create().Table = %+v, want empty ref", order.Table)
	}
	if len(order.Items) != 1 || order.Items[0].MenuItem.ID != soup.ID {
		t.Fatalf("Create().Items = %+v, want one line for %s", order.Items, soup.ID)
	}
	if order.Subtotal != 15 {
		t.Errorf("Create().Subtotal = %v, want 15", order.Subtotal)
	}
}
