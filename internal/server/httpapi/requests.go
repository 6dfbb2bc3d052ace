package httpapi

// Request bodies, mirroring the public API's JSON contracts.

type registerRequest struct {
	Name         string `json:"name"`
	Surname      string `json:"surname"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FiscalCode   string `json:"fiscal_code"`
	IDCardNumber string `json:"id_card_number"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type logoutRequest struct {
	Email string `json:"email"`
}

type modifyProfileRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
}

type civicRecordRequest struct {
	Email            string `json:"email"`
	SubscriptionCode string `json:"subscription_code"`
	PODCode          string `json:"pod_code"`
	DriverLicense    string `json:"driver_license"`
}

type civicFieldRequest struct {
	Email    string `json:"email"`
	Field    string `json:"field"`
	NewValue string `json:"new_value"`
}

type clearFieldRequest struct {
	Email string `json:"email"`
	Field string `json:"field"`
}
