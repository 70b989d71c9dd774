package cli

import (
	"fmt"
	"text/tabwriter"

	"empdir/internal/domain/employees"
)

func (a *App) printTable() {
	rows := a.view.Visible()
	search, department, position := a.view.Filters()
	if search != "" || department != "" || position != "" {
		fmt.Fprintf(a.out, "Showing %d of %d employees (search=%q department=%q position=%q)\n",
			len(rows), a.view.Total(), search, department, position)
	} else {
		fmt.Fprintf(a.out, "%d employees\n", len(rows))
	}
	if len(rows) == 0 {
		fmt.Fprintln(a.out, "No employees found.")
		return
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tEMAIL\tPOSITION\tDEPARTMENT\tSALARY\tJOINED")
	for i, emp := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1, emp.FullName(), emp.Email, emp.Position, emp.Department,
			employees.FormatSalary(emp.Salary), emp.DateOfJoining.Format("2006-01-02"))
	}
	_ = tw.Flush()
}

func (a *App) printEmployee(emp employees.Employee) {
	picture := "None"
	if emp.ProfilePicture != nil && *emp.ProfilePicture != "" {
		picture = a.api.AssetURL(*emp.ProfilePicture)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\t%s\n", emp.ID)
	fmt.Fprintf(tw, "Name\t%s\n", emp.FullName())
	fmt.Fprintf(tw, "Email\t%s\n", emp.Email)
	fmt.Fprintf(tw, "Position\t%s\n", emp.Position)
	fmt.Fprintf(tw, "Department\t%s\n", emp.Department)
	fmt.Fprintf(tw, "Salary\t%s\n", employees.FormatSalary(emp.Salary))
	fmt.Fprintf(tw, "Joined\t%s\n", emp.DateOfJoining.Format("January 2, 2006"))
	fmt.Fprintf(tw, "Picture\t%s\n", picture)
	_ = tw.Flush()
}
