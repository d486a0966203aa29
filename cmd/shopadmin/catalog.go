package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/fashioneshop/shopadmin/internal/client"
	"github.com/fashioneshop/shopadmin/internal/resources"
	"github.com/fashioneshop/shopadmin/internal/views"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func parseIDs(args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func group(use, short, route string) *cobra.Command {
	return &cobra.Command{
		Use:         use,
		Short:       short,
		Annotations: map[string]string{routeAnnotation: route},
	}
}

// openFiles opens image paths for upload. The returned function closes them.
func openFiles(paths []string) ([]client.File, func(), error) {
	var opened []*os.File
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	files := make([]client.File, 0, len(paths))
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opened = append(opened, f)
		files = append(files, client.File{
			Name:        filepath.Base(p),
			ContentType: mime.TypeByExtension(filepath.Ext(p)),
			Data:        f,
		})
	}
	return files, closeAll, nil
}

// productFlags binds the editor fields to flags. Only flags the user set are
// copied onto the form, so update keeps the stored values of the rest.
type productFlags struct {
	fields views.ProductFields
	images []string
}

func (pf *productFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&pf.fields.Title, "title", "", "product title")
	fs.StringVar(&pf.fields.Description, "description", "", "description")
	fs.StringVar(&pf.fields.Price, "price", "", "price")
	fs.StringVar(&pf.fields.ComparePrice, "compare-price", "", "compare-at price")
	fs.StringVar(&pf.fields.SKU, "sku", "", "SKU")
	fs.StringVar(&pf.fields.Barcode, "barcode", "", "barcode")
	fs.StringVar(&pf.fields.Stock, "stock", "", "units in stock")
	fs.StringVar(&pf.fields.Weight, "weight", "", "weight")
	fs.StringVar(&pf.fields.Status, "status", "", "active, draft, published or archived")
	fs.StringVar(&pf.fields.Vendor, "vendor", "", "vendor")
	fs.StringVar(&pf.fields.ProductType, "type", "", "product type")
	fs.StringVar(&pf.fields.Tags, "tags", "", "comma separated tags")
	fs.StringSliceVar(&pf.images, "image", nil, "image file to upload (repeatable)")
}

func (pf *productFlags) apply(fs *pflag.FlagSet, form *views.ProductForm) {
	set := func(name string, dst *string, v string) {
		if fs.Changed(name) {
			*dst = v
		}
	}
	set("title", &form.Fields.Title, pf.fields.Title)
	set("description", &form.Fields.Description, pf.fields.Description)
	set("price", &form.Fields.Price, pf.fields.Price)
	set("compare-price", &form.Fields.ComparePrice, pf.fields.ComparePrice)
	set("sku", &form.Fields.SKU, pf.fields.SKU)
	set("barcode", &form.Fields.Barcode, pf.fields.Barcode)
	set("stock", &form.Fields.Stock, pf.fields.Stock)
	set("weight", &form.Fields.Weight, pf.fields.Weight)
	set("status", &form.Fields.Status, pf.fields.Status)
	set("vendor", &form.Fields.Vendor, pf.fields.Vendor)
	set("type", &form.Fields.ProductType, pf.fields.ProductType)
	set("tags", &form.Fields.Tags, pf.fields.Tags)
}

// save uploads the flagged images onto the form and submits it.
func (pf *productFlags) save(cmd *cobra.Command, form *views.ProductForm) error {
	ctx := cmd.Context()
	pf.apply(cmd.Flags(), form)
	if len(pf.images) > 0 {
		files, closeAll, err := openFiles(pf.images)
		if err != nil {
			return err
		}
		err = form.Upload(ctx, files)
		closeAll()
		if err != nil {
			return shown(err)
		}
	}
	id, err := form.Submit(ctx)
	if err != nil {
		return shown(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func newProductsCmd(a *app) *cobra.Command {
	cmd := group("products", "Manage the product catalog", "/admin/products")

	var search, status string
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewProducts(a.env())
			s.SetFilter(search, status)
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	list.Flags().StringVar(&search, "search", "", "match title, SKU or tags")
	list.Flags().StringVar(&status, "status", "", "only products in this status")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			form := views.NewProductForm(a.env(), id)
			if err := form.Load(cmd.Context()); err != nil {
				return err
			}
			return form.Render(a.out)
		},
	}

	var createFlags productFlags
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return createFlags.save(cmd, views.NewProductForm(a.env(), 0))
		},
	}
	createFlags.register(create.Flags())

	var updateFlags productFlags
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a product; unset flags keep their values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			form := views.NewProductForm(a.env(), id)
			if err := form.Load(cmd.Context()); err != nil {
				return err
			}
			return updateFlags.save(cmd, form)
		},
	}
	updateFlags.register(update.Flags())

	var removeImages []int
	upload := &cobra.Command{
		Use:   "images <id> [file...]",
		Short: "Add image files to a product and remove images by position",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			form := views.NewProductForm(a.env(), id)
			if err := form.Load(cmd.Context()); err != nil {
				return err
			}
			// Highest position first so earlier removals don't shift later ones.
			for i := len(removeImages) - 1; i >= 0; i-- {
				form.RemoveImage(removeImages[i] - 1)
			}
			var pf productFlags
			pf.images = args[1:]
			return pf.save(cmd, form)
		},
	}
	upload.Flags().IntSliceVar(&removeImages, "remove", nil, "1-based image position to remove, in ascending order (repeatable)")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewProducts(a.env()).Delete(cmd.Context(), id))
		},
	}

	cmd.AddCommand(list, show, create, update, upload, del)
	return cmd
}

func newCollectionsCmd(a *app) *cobra.Command {
	cmd := group("collections", "Manage product collections", "/admin/collections")

	var in resources.CollectionInput
	inputFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&in.Name, "name", "", "collection name")
		c.Flags().StringVar(&in.Description, "description", "", "description")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewCollections(a.env())
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := views.NewCollections(a.env()).Create(cmd.Context(), in)
			if err != nil {
				return shown(err)
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
	inputFlags(create)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewCollections(a.env()).Update(cmd.Context(), id, in))
		},
	}
	inputFlags(update)
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewCollections(a.env()).Delete(cmd.Context(), id))
		},
	}
	add := &cobra.Command{
		Use:   "add-product <id> <product-id>",
		Short: "Add a product to a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return shown(views.NewCollections(a.env()).AddProduct(cmd.Context(), ids[0], ids[1]))
		},
	}
	remove := &cobra.Command{
		Use:   "remove-product <id> <product-id>",
		Short: "Remove a product from a collection",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return shown(views.NewCollections(a.env()).RemoveProduct(cmd.Context(), ids[0], ids[1]))
		},
	}

	cmd.AddCommand(list, create, update, del, add, remove)
	return cmd
}

func newBundlesCmd(a *app) *cobra.Command {
	cmd := group("bundles", "Manage product bundles", "/admin/bundles")

	var form views.BundleForm
	formFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&form.Name, "name", "", "bundle name")
		c.Flags().StringVar(&form.Description, "description", "", "description")
		c.Flags().StringVar(&form.DiscountPercentage, "discount", "", "discount percentage")
	}
	var field resources.BundleFieldInput
	fieldFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&field.Label, "label", "", "field label")
		c.Flags().StringVar(&field.FieldType, "type", "", "field type")
		c.Flags().StringVar(&field.Options, "options", "", "field options")
		c.Flags().BoolVar(&field.Required, "required", false, "customers must fill the field")
		c.Flags().IntVar(&field.Position, "position", 0, "display position")
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List bundles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := views.NewBundles(a.env())
			return a.show(cmd.Context(), s, loader(s.Load))
		},
	}
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := views.NewBundles(a.env()).Create(cmd.Context(), form)
			if err != nil {
				return shown(err)
			}
			fmt.Fprintln(a.out, id)
			return nil
		},
	}
	formFlags(create)
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewBundles(a.env()).Update(cmd.Context(), id, form))
		},
	}
	formFlags(update)
	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return shown(views.NewBundles(a.env()).Delete(cmd.Context(), id))
		},
	}
	addField := &cobra.Command{
		Use:   "add-field <id>",
		Short: "Add a field to a bundle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fid, err := views.NewBundles(a.env()).AddField(cmd.Context(), id, field)
			if err != nil {
				return shown(err)
			}
			fmt.Fprintln(a.out, fid)
			return nil
		},
	}
	fieldFlags(addField)
	updateField := &cobra.Command{
		Use:   "update-field <id> <field-id>",
		Short: "Update a bundle field",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return shown(views.NewBundles(a.env()).UpdateField(cmd.Context(), ids[0], ids[1], field))
		},
	}
	fieldFlags(updateField)
	deleteField := &cobra.Command{
		Use:   "delete-field <id> <field-id>",
		Short: "Remove a field from a bundle",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			return shown(views.NewBundles(a.env()).DeleteField(cmd.Context(), ids[0], ids[1]))
		},
	}

	cmd.AddCommand(list, create, update, del, addField, updateField, deleteField)
	return cmd
}
