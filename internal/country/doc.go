// Package country maps country codes and free-form country values to
// canonical display names.
//
// Resolution never errors: an unknown input produces the empty string and the
// caller treats the field as unknown. The table covers the countries that
// appear in release metadata plus historical synonyms for defunct states.
package country
