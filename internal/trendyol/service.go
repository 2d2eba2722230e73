package trendyol

import (
	"fmt"
	"net/url"
)

// Filter holds list query parameters, such as page, size, status or barcode.
type Filter map[string]string

// service is embedded by every resource wrapper.
type service struct {
	req      *Requester
	supplier *SupplierContext
}

// supplierPath interpolates the supplier ID, then each escaped arg, into
// format.
func (s service) supplierPath(format string, args ...any) string {
	vals := make([]any, 0, len(args)+1)
	vals = append(vals, url.PathEscape(s.supplier.SupplierID))
	for _, a := range args {
		vals = append(vals, url.PathEscape(fmt.Sprint(a)))
	}
	return fmt.Sprintf(format, vals...)
}

// listQuery merges f over defaults and the supplierId scope.
func (s service) listQuery(f Filter, defaults Filter) url.Values {
	q := url.Values{}
	q.Set("supplierId", s.supplier.SupplierID)
	for k, v := range defaults {
		q.Set(k, v)
	}
	for k, v := range f {
		q.Set(k, v)
	}
	return q
}

func plainQuery(f Filter, defaults Filter) url.Values {
	q := url.Values{}
	for k, v := range defaults {
		q.Set(k, v)
	}
	for k, v := range f {
		q.Set(k, v)
	}
	return q
}
