package civicctl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type registerPayload struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FiscalCode   string `json:"fiscal_code"`
	IDCardNumber string `json:"id_card_number"`
}

// Register interactively collects account data and submits it to the
// server's registration endpoint.
func (a *App) Register(reader *bufio.Reader) error {
	payload := registerPayload{}

	var err error
	if payload.Name, err = GetSimpleText(reader, "Enter name", a.out); err != nil {
		return err
	}
	if payload.Surname, err = GetSimpleText(reader, "Enter surname", a.out); err != nil {
		return err
	}
	if payload.Email, err = GetSimpleText(reader, "Enter email", a.out); err != nil {
		return err
	}
	if payload.FiscalCode, err = GetSimpleText(reader, "Enter fiscal code", a.out); err != nil {
		return err
	}
	if payload.IDCardNumber, err = GetSimpleText(reader, "Enter ID card number", a.out); err != nil {
		return err
	}

	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	payload.Password = string(pw)

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := a.client.Post(a.baseURL+"/auth/register", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("register request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("registration failed (%d): %s", resp.StatusCode, raw)
	}

	fmt.Fprintln(a.out, "Success!")
	return nil
}
