package collection

// Department is a curatorial department of the museum collection.
type Department struct {
	DepartmentID int    `json:"departmentId"`
	DisplayName  string `json:"displayName"`
}

type departmentsResponse struct {
	Departments []Department `json:"departments"`
}

type objectIDsResponse struct {
	Total     int   `json:"total"`
	ObjectIDs []int `json:"objectIDs"`
}

// Object is the subset of an artwork record the service relies on.
type Object struct {
	ObjectID          int    `json:"objectID"`
	PrimaryImage      string `json:"primaryImage"`
	PrimaryImageSmall string `json:"primaryImageSmall"`
	Title             string `json:"title"`
}
